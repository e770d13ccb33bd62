package canvas

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

var guideColor = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xc0}

// AssetSource resolves decoded bitmaps referenced by image elements.
type AssetSource interface {
	Asset(id string) (image.Image, bool)
}

// TextRasterizer draws text content at its natural size.
type TextRasterizer interface {
	Rasterize(t design.TextContent) (*image.RGBA, error)
}

// RenderOptions controls what a render includes.
type RenderOptions struct {
	Assets AssetSource
	Text   TextRasterizer
	// Export drops export-excluded handles and all outlines.
	Export bool
}

// Render paints the surface onto a new transparent bitmap at the working
// resolution.
func (s *Surface) Render(ctx context.Context, opts RenderOptions) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, int(s.width), int(s.height)))
	if err := s.RenderInto(ctx, dst, opts); err != nil {
		return nil, err
	}
	return dst, nil
}

// RenderInto paints design handles in paint order, then overlays and outlines
// unless rendering for export.
func (s *Surface) RenderInto(ctx context.Context, dst draw.Image, opts RenderOptions) error {
	for _, id := range s.designs {
		if err := ctx.Err(); err != nil {
			return err
		}
		h := s.handles[id]
		if opts.Export && (h.exportExcluded || !h.purpose.Exportable()) {
			continue
		}
		sprite, err := s.sprite(h.element, opts)
		if err != nil {
			return fmt.Errorf("rendering element %s: %w", id, err)
		}
		paintSprite(dst, sprite, h.element)
	}
	if opts.Export {
		return nil
	}
	for _, id := range s.overlays {
		h := s.handles[id]
		if h.purpose == enums.LayerPurposeGuide {
			strokeRect(dst, h.area, design.Stroke{Color: guideColor, Width: 1.5, Dash: []float64{8, 6}})
		}
	}
	for _, id := range s.designs {
		h := s.handles[id]
		if !h.stroke.IsZero() {
			strokeRect(dst, h.element.Bounds(), h.stroke)
		}
	}
	return nil
}

func (s *Surface) sprite(el design.Element, opts RenderOptions) (image.Image, error) {
	switch el.Kind {
	case enums.ElementKindImage:
		if opts.Assets == nil {
			return nil, fmt.Errorf("no asset source")
		}
		img, ok := opts.Assets.Asset(el.Image.AssetID)
		if !ok {
			return nil, fmt.Errorf("asset %s not loaded", el.Image.AssetID)
		}
		return img, nil
	case enums.ElementKindText:
		if opts.Text == nil {
			return nil, fmt.Errorf("no text rasterizer")
		}
		return opts.Text.Rasterize(*el.Text)
	}
	return nil, fmt.Errorf("unknown element kind %q", el.Kind)
}

// paintSprite scales sprite into the element bounds, mirrored per the flips.
func paintSprite(dst draw.Image, sprite image.Image, el design.Element) {
	b := el.Bounds()
	r := image.Rect(
		int(math.Round(b.MinX)), int(math.Round(b.MinY)),
		int(math.Round(b.MaxX)), int(math.Round(b.MaxY)),
	)
	if r.Empty() {
		return
	}
	flipX := el.Transform.FlipX != (el.Transform.ScaleX < 0)
	flipY := el.Transform.FlipY != (el.Transform.ScaleY < 0)
	var src image.Image = sprite
	if flipX || flipY {
		src = mirrored{src: sprite, x: flipX, y: flipY}
	}
	xdraw.CatmullRom.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
}

// strokeRect outlines r with a (possibly dashed) line.
func strokeRect(dst draw.Image, r design.Rect, stroke design.Stroke) {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, bounds)
	dasher := rasterx.NewDasher(w, h, scanner)
	dasher.SetColor(stroke.Color)
	dasher.SetStroke(
		fixed.Int26_6(stroke.Width*64), 4*64,
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter,
		stroke.Dash, 0,
	)
	rasterx.AddRect(r.MinX, r.MinY, r.MaxX, r.MaxY, 0, dasher)
	dasher.Draw()
}

type mirrored struct {
	src  image.Image
	x, y bool
}

func (m mirrored) ColorModel() color.Model { return m.src.ColorModel() }

func (m mirrored) Bounds() image.Rectangle { return m.src.Bounds() }

func (m mirrored) At(x, y int) color.Color {
	b := m.src.Bounds()
	if m.x {
		x = b.Max.X - 1 - (x - b.Min.X)
	}
	if m.y {
		y = b.Max.Y - 1 - (y - b.Min.Y)
	}
	return m.src.At(x, y)
}
