package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assetMap map[string]image.Image

func (m assetMap) Asset(id string) (image.Image, bool) {
	img, ok := m[id]
	return img, ok
}

type solidBackgrounds struct{ fill color.RGBA }

func (b solidBackgrounds) LoadBackground(_ context.Context, ref string) (image.Image, error) {
	if ref == "missing" {
		return nil, errors.New("object not found")
	}
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	draw.Draw(img, img.Bounds(), image.NewUniform(b.fill), image.Point{}, draw.Src)
	return img, nil
}

type outcomes struct {
	mu    sync.Mutex
	views map[enums.View]error
}

func (o *outcomes) ViewExported(view enums.View, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.views[view] = err
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func newExporter(t *testing.T, obs Observer) *Exporter {
	t.Helper()
	reg := zones.NewRegistry(zones.Document{Front: []zones.Zone{{ID: "chest", Name: "Chest", X: 0.25, Y: 0.25, Width: 0.5, Height: 0.3}}})
	engine, err := constraints.NewEngine(constraints.Config{CanvasWidth: 600, CanvasHeight: 600, SizeCapRatio: 0.8}, reg)
	require.NoError(t, err)
	book, err := canvas.NewFontBook()
	require.NoError(t, err)
	e, err := NewExporter(Options{
		CanvasWidth:  600,
		CanvasHeight: 600,
		OutputSize:   800,
		Engine:       engine,
		Text:         book,
		Backgrounds:  solidBackgrounds{fill: color.RGBA{B: 0xff, A: 0xff}},
		Observer:     obs,
	})
	require.NoError(t, err)
	return e
}

func store(t *testing.T, doc *design.Document, view enums.View, els ...design.Element) {
	t.Helper()
	vd := design.NewViewDocument(view)
	vd.Elements = append(vd.Elements, els...)
	vd.Renumber()
	data, err := vd.Marshal()
	require.NoError(t, err)
	doc.Store(view, data)
}

func picture(id, asset string, cx, cy float64) design.Element {
	return design.Element{
		ID:        id,
		Kind:      enums.ElementKindImage,
		Transform: design.Transform{CenterX: cx, CenterY: cy, ScaleX: 1, ScaleY: 1},
		Width:     120,
		Height:    90,
		Image:     &design.ImageContent{AssetID: asset, Width: 120, Height: 90},
	}
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestExportRendersOnlyCustomizedViews(t *testing.T) {
	obs := &outcomes{views: map[enums.View]error{}}
	e := newExporter(t, obs)

	doc := design.NewDocument()
	store(t, doc, enums.ViewFront, picture("logo", "red", 300, 300))
	store(t, doc, enums.ViewBack)
	store(t, doc, enums.ViewLeft, design.Element{
		ID:        "caption",
		Kind:      enums.ElementKindText,
		Transform: design.Transform{CenterX: 300, CenterY: 300, ScaleX: 1, ScaleY: 1},
		Width:     100,
		Height:    40,
		Text:      &design.TextContent{Content: "Hi", FontFamily: canvas.FontFamilyGo, Fill: "#000000", Size: 32},
	})

	summary, err := e.Export(context.Background(), Request{
		ProductName: "Classic Tee",
		Document:    doc,
		Backgrounds: map[enums.View]string{enums.ViewFront: "tee-front.png", enums.ViewLeft: "tee-left.png"},
		Assets:      assetMap{"red": solid(120, 90, color.RGBA{R: 0xff, A: 0xff})},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 4, summary.Possible)
	assert.True(t, summary.Complete())
	require.Len(t, summary.Results, 2)
	assert.Equal(t, enums.ViewFront, summary.Results[0].View)
	assert.Equal(t, "classic-tee-Front.png", summary.Results[0].FileName)
	assert.Equal(t, enums.ViewLeft, summary.Results[1].View)
	assert.Len(t, obs.views, 2)

	front := decodePNG(t, summary.Results[0].PNG)
	assert.Equal(t, image.Rect(0, 0, 800, 800), front.Bounds())
	r, g, b, _ := front.At(400, 400).RGBA()
	assert.Greater(t, r, uint32(0xf000), "design painted over the garment")
	assert.Less(t, g, uint32(0x1000))
	assert.Less(t, b, uint32(0x1000))
	_, _, b, _ = front.At(10, 10).RGBA()
	assert.Greater(t, b, uint32(0xf000), "garment background fills the frame")
}

func TestExportCapturesPerViewFailures(t *testing.T) {
	e := newExporter(t, nil)
	doc := design.NewDocument()
	store(t, doc, enums.ViewFront, picture("logo", "red", 300, 300))
	store(t, doc, enums.ViewBack, picture("ghost", "gone", 300, 300))
	store(t, doc, enums.ViewRight, picture("logo2", "red", 300, 300))

	summary, err := e.Export(context.Background(), Request{
		ProductName: "tee",
		Document:    doc,
		Backgrounds: map[enums.View]string{enums.ViewRight: "missing"},
		Assets:      assetMap{"red": solid(120, 90, color.RGBA{R: 0xff, A: 0xff})},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.True(t, summary.Partial())
	assert.False(t, summary.Complete())
	require.Error(t, summary.Err())

	back, ok := summary.Result(enums.ViewBack)
	require.True(t, ok)
	assert.Error(t, back.Err)
	assert.Nil(t, back.PNG)
	front, ok := summary.Result(enums.ViewFront)
	require.True(t, ok)
	assert.NoError(t, front.Err)
}

func TestExportAbortsOnCancellation(t *testing.T) {
	e := newExporter(t, nil)
	doc := design.NewDocument()
	store(t, doc, enums.ViewFront, picture("logo", "red", 300, 300))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := e.Export(ctx, Request{ProductName: "tee", Document: doc, Assets: assetMap{"red": solid(120, 90, color.RGBA{R: 0xff, A: 0xff})}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Succeeded)
}

func TestExportWithNothingPlaced(t *testing.T) {
	e := newExporter(t, nil)
	summary, err := e.Export(context.Background(), Request{ProductName: "tee", Document: design.NewDocument()})
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
	assert.False(t, summary.Partial())
}

func TestRenderViewDrawsEmptyViews(t *testing.T) {
	e := newExporter(t, nil)
	data, err := e.RenderView(context.Background(), Request{
		ProductName: "tee",
		Document:    design.NewDocument(),
		Backgrounds: map[enums.View]string{enums.ViewBack: "tee-back.png"},
	}, enums.ViewBack)
	require.NoError(t, err)
	img := decodePNG(t, data)
	_, _, b, _ := img.At(400, 400).RGBA()
	assert.Greater(t, b, uint32(0xf000))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "classic-tee-Back.png", FileName("Classic  Tee!", enums.ViewBack))
	assert.Equal(t, "design-Left.png", FileName("", enums.ViewLeft))
}
