package session

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/catalog"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/ingest"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/debounce"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage/local"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	cfg *catalog.Configuration
}

func (s stubCatalog) Configuration(_ context.Context, productID, _ uuid.UUID) (*catalog.Configuration, error) {
	if productID != s.cfg.ProductID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.cfg, nil
}

type stubCart struct {
	mu     sync.Mutex
	inputs []cart.SubmitInput
	err    error
}

func (s *stubCart) Submit(_ context.Context, in cart.SubmitInput) (*cart.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.inputs = append(s.inputs, in)
	id := in.SubmissionID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &cart.Submission{ID: id, SessionID: in.SessionID, Total: in.Quote.Total, Currency: in.Configuration.Currency}, nil
}

func (s *stubCart) GetSubmission(context.Context, uuid.UUID) (*cart.Submission, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
}

type memoryAutosaver struct {
	mu    sync.Mutex
	saves int
	data  map[uuid.UUID][]byte
}

func newMemoryAutosaver() *memoryAutosaver {
	return &memoryAutosaver{data: map[uuid.UUID][]byte{}}
}

func (m *memoryAutosaver) Save(_ context.Context, id uuid.UUID, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[id] = append([]byte(nil), payload...)
	return nil
}

func (m *memoryAutosaver) Load(_ context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.data[id]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return payload, nil
}

func (m *memoryAutosaver) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *memoryAutosaver) has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok
}

type harness struct {
	deps     Dependencies
	manager  *Manager
	clock    *debounce.ManualClock
	cart     *stubCart
	autosave *memoryAutosaver
	cfg      *catalog.Configuration
	now      time.Time
}

func testCanvasConfig() config.CanvasConfig {
	return config.CanvasConfig{
		Width:            600,
		Height:           600,
		OutputSize:       800,
		SizeCapRatio:     0.8,
		ScaleStep:        1.1,
		NudgeStep:        5,
		MoveGrace:        1,
		Debounce:         100 * time.Millisecond,
		ExportTimeout:    10 * time.Second,
		DefaultFontSize:  32,
		DefaultTextColor: "#000000",
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	canvasCfg := testCanvasConfig()
	pipeline, err := ingest.NewPipeline(ingest.RulesFromConfig(config.MediaConfig{
		MinBytes:          100,
		MaxUploadMB:       10,
		MinPixels:         100,
		MaxPixels:         4000,
		MaxDecodePixels:   40_000_000,
		RecommendedPixels: 1000,
		WorkspaceWidth:    0.5,
		WorkspaceHeight:   0.4,
	}, canvasCfg), nil)
	require.NoError(t, err)
	calc, err := pricing.NewCalculator(decimal.NewFromInt(10), "eur")
	require.NoError(t, err)
	fonts, err := canvas.NewFontBook()
	require.NoError(t, err)
	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	h := &harness{
		clock:    debounce.NewManualClock(),
		cart:     &stubCart{},
		autosave: newMemoryAutosaver(),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		cfg: &catalog.Configuration{
			ProductID: uuid.New(),
			VariantID: uuid.New(),
			Name:      "Classic Tee",
			BasePrice: decimal.RequireFromString("19.90"),
			Currency:  "EUR",
			Sizes:     []string{"S", "M", "L"},
			Zones: zones.Document{
				Front: []zones.Zone{{ID: "chest", Name: "Chest", X: 0.25, Y: 0.25, Width: 0.5, Height: 0.3}},
			},
		},
	}
	h.deps = Dependencies{
		Catalog:    stubCatalog{cfg: h.cfg},
		Cart:       h.cart,
		Pipeline:   pipeline,
		Calculator: calc,
		Fonts:      fonts,
		Storage:    store,
		Autosave:   h.autosave,
		Canvas:     canvasCfg,
		Clock:      h.clock,
		Now:        func() time.Time { return h.now },
	}
	h.manager, err = NewManager(context.Background(), h.deps, time.Hour)
	require.NoError(t, err)
	return h
}

func (h *harness) designing(t *testing.T) *DesignSession {
	t.Helper()
	s, err := h.manager.Create(context.Background(), h.cfg.ProductID, uuid.Nil)
	require.NoError(t, err)
	_, err = s.Activate(enums.ViewFront)
	require.NoError(t, err)
	return s
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x ^ y), A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCreateStartsEmpty(t *testing.T) {
	h := newHarness(t)
	s, err := h.manager.Create(context.Background(), h.cfg.ProductID, uuid.Nil)
	require.NoError(t, err)

	status := s.Status()
	assert.Equal(t, enums.SessionStateEmpty, status.State)
	assert.Equal(t, enums.ViewFront, status.ActiveView)
	require.Len(t, status.Guides, 1)
	assert.Equal(t, "Chest", status.Guides[0].Label)
	assert.Equal(t, 1, h.manager.Len())
	assert.True(t, h.autosave.has(s.ID()))

	_, err = s.AddText(TextInput{Content: "early"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = h.manager.Create(context.Background(), uuid.New(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestActivateKeepsElementsAcrossViews(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)

	added, err := s.AddText(TextInput{Content: "Front"})
	require.NoError(t, err)

	status, err := s.Activate(enums.ViewBack)
	require.NoError(t, err)
	assert.Empty(t, status.Elements)
	assert.Empty(t, status.Guides)

	status, err = s.Activate(enums.ViewFront)
	require.NoError(t, err)
	require.Len(t, status.Elements, 1)
	assert.Equal(t, added.Element.ID, status.Elements[0].Element.ID)
	assert.Equal(t, added.Element.Transform, status.Elements[0].Element.Transform)

	again, err := s.Activate(enums.ViewFront)
	require.NoError(t, err)
	assert.Equal(t, status.Elements, again.Elements)

	_, err = s.Activate(enums.View("top"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestEditsSerializeAfterDebounce(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	saves := h.autosave.saves

	_, err := s.AddText(TextInput{Content: "Hello"})
	require.NoError(t, err)
	assert.True(t, s.Status().Pending)

	h.clock.Advance(50 * time.Millisecond)
	assert.True(t, s.Status().Pending)

	h.clock.Advance(60 * time.Millisecond)
	assert.False(t, s.Status().Pending)
	assert.Greater(t, h.autosave.saves, saves)

	count, err := s.store.Document().ElementCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUploadRequiresAcknowledgment(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	data := encodePNG(t, 200, 200)

	_, err := s.Upload(context.Background(), ingest.Upload{Filename: "logo.png", Data: data})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeAcknowledgmentRequired))

	require.NoError(t, s.Acknowledge())
	res, err := s.Upload(context.Background(), ingest.Upload{Filename: "logo.png", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Equal(t, enums.ElementKindImage, res.Element.Element.Kind)
	assert.Equal(t, 300.0, res.Element.Element.Transform.CenterX)
	assert.NotEmpty(t, res.Warnings)

	status := s.Status()
	require.Len(t, status.Elements, 1)
	assert.Equal(t, res.Element.Element.ID, status.Selected)
}

func TestUndersizedUploadCreatesNothing(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	require.NoError(t, s.Acknowledge())

	_, err := s.Upload(context.Background(), ingest.Upload{Filename: "tiny.png", Data: encodePNG(t, 50, 50)})
	require.Error(t, err)
	assert.Equal(t, ingest.RuleMinPixels, ingest.RuleOf(err))
	assert.Empty(t, s.Status().Elements)
}

func TestReleaseOutsideZoneIsCorrected(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	added, err := s.AddText(TextInput{Content: "Hi"})
	require.NoError(t, err)
	assert.False(t, added.Violation.Violating)

	press, err := s.Gesture(GestureInput{Phase: enums.GesturePress, X: 300, Y: 300})
	require.NoError(t, err)
	assert.True(t, press.Hit)
	assert.Equal(t, added.Element.ID, press.ElementID)

	_, err = s.Gesture(GestureInput{Phase: enums.GestureMove, X: 500, Y: 500})
	require.NoError(t, err)

	release, err := s.Gesture(GestureInput{Phase: enums.GestureRelease, X: 560, Y: 560})
	require.NoError(t, err)
	assert.True(t, release.Judged)
	assert.False(t, release.Violation.Violating)
	require.NotNil(t, release.Element)
	b := release.Element.Bounds()
	assert.LessOrEqual(t, b.MaxX, 450.0+1e-9)
	assert.LessOrEqual(t, b.MaxY, 330.0+1e-9)

	_, err = s.Gesture(GestureInput{Phase: enums.GestureRelease, X: 1, Y: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	miss, err := s.Gesture(GestureInput{Phase: enums.GesturePress, X: 5, Y: 5})
	require.NoError(t, err)
	assert.False(t, miss.Hit)
	assert.Empty(t, s.Status().Selected)
}

func TestTransformsAndLayers(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	first, err := s.AddText(TextInput{Content: "one"})
	require.NoError(t, err)
	second, err := s.AddText(TextInput{Content: "two"})
	require.NoError(t, err)

	nudged, err := s.Transform(first.Element.ID, TransformInput{Action: enums.TransformNudge, DX: 1})
	require.NoError(t, err)
	assert.Equal(t, first.Element.Transform.CenterX+5, nudged.Element.Transform.CenterX)

	flipped, err := s.Transform(first.Element.ID, TransformInput{Action: enums.TransformFlipX})
	require.NoError(t, err)
	assert.True(t, flipped.Element.Transform.FlipX)

	scaled, err := s.Transform(first.Element.ID, TransformInput{Action: enums.TransformScaleUp})
	require.NoError(t, err)
	assert.InDelta(t, 1.1, scaled.Element.Transform.ScaleX, 1e-9)

	_, err = s.Transform(first.Element.ID, TransformInput{Action: enums.TransformNudge})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	layers := s.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, second.Element.ID, layers[0].ID)

	changed, layers, err := s.MoveLayer(first.Element.ID, enums.LayerMoveFront)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, first.Element.ID, layers[0].ID)
	assert.Equal(t, 1, layers[0].Z)
	assert.Equal(t, "one", layers[0].Label)

	changed, _, err = s.MoveLayer(first.Element.ID, enums.LayerMoveForward)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, s.Delete(second.Element.ID))
	assert.Len(t, s.Layers(), 1)
	assert.True(t, pkgerrors.IsCode(s.Delete(second.Element.ID), pkgerrors.CodeNotFound))
}

func TestUpdateTextRefreshesFormatting(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	added, err := s.AddText(TextInput{Content: "Hi"})
	require.NoError(t, err)

	bold := true
	fill := "#ff0000"
	updated, err := s.UpdateText(added.Element.ID, canvas.TextPatch{Bold: &bold, Fill: &fill})
	require.NoError(t, err)
	assert.True(t, updated.Element.Text.Bold)

	fm := s.Status().Formatting
	assert.Equal(t, added.Element.ID, fm.ElementID)
	assert.True(t, fm.Bold)
	assert.Equal(t, "#ff0000", fm.Fill)

	fm, err = s.ClearSelection()
	require.NoError(t, err)
	assert.Empty(t, fm.ElementID)
	assert.Equal(t, "#000000", fm.Fill)

	empty := "  "
	_, err = s.UpdateText(added.Element.ID, canvas.TextPatch{Content: &empty})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSubmitPricesEveryView(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	_, err := s.AddText(TextInput{Content: "front"})
	require.NoError(t, err)
	_, err = s.Activate(enums.ViewBack)
	require.NoError(t, err)
	_, err = s.AddText(TextInput{Content: "back"})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), SubmitInput{Quantities: map[string]int{"M": 1}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = s.Review()
	require.NoError(t, err)
	_, err = s.AddText(TextInput{Content: "late"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = s.Submit(context.Background(), SubmitInput{Quantities: map[string]int{"M": 0}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, h.cart.inputs)
	assert.Equal(t, enums.SessionStateReviewing, s.State())

	res, err := s.Submit(context.Background(), SubmitInput{Quantities: map[string]int{"M": 2, "L": 1}})
	require.NoError(t, err)
	assert.True(t, res.Quote.PerUnit.Equal(decimal.RequireFromString("39.90")))
	assert.True(t, res.Quote.Total.Equal(decimal.RequireFromString("119.70")))
	assert.Equal(t, 2, res.Exported)
	assert.Equal(t, 4, res.Possible)
	assert.Contains(t, res.Previews[enums.ViewFront], "classic-tee-Front.png")
	assert.Contains(t, res.Previews[enums.ViewBack], "classic-tee-Back.png")

	require.Len(t, h.cart.inputs, 1)
	assert.Equal(t, 2, h.cart.inputs[0].ElementCount)
	assert.Equal(t, enums.SessionStateSubmitted, s.State())
	assert.NotNil(t, s.Status().SubmissionID)

	assert.True(t, pkgerrors.IsCode(s.Cancel(), pkgerrors.CodeStateConflict))
}

func TestReviewBackToDesignPreservesDocuments(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	added, err := s.AddText(TextInput{Content: "keep"})
	require.NoError(t, err)

	_, err = s.Review()
	require.NoError(t, err)
	status, err := s.Design()
	require.NoError(t, err)
	assert.Equal(t, enums.SessionStateDesigning, status.State)
	require.Len(t, status.Elements, 1)
	assert.Equal(t, added.Element.Transform, status.Elements[0].Element.Transform)

	_, err = s.Design()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestQuoteIgnoresOtherSizes(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	_, err := s.AddText(TextInput{Content: "a"})
	require.NoError(t, err)

	one, err := s.Quote(map[string]int{"M": 1})
	require.NoError(t, err)
	many, err := s.Quote(map[string]int{"M": 1, "L": 7})
	require.NoError(t, err)
	assert.True(t, one.PerUnit.Equal(many.PerUnit))

	_, err = s.Quote(map[string]int{"XXL": 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDownloadView(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)

	_, _, err := s.DownloadView(context.Background(), enums.ViewFront)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = s.AddText(TextInput{Content: "print me"})
	require.NoError(t, err)

	name, data, err := s.DownloadView(context.Background(), enums.ViewFront)
	require.NoError(t, err)
	assert.Equal(t, "classic-tee-Front.png", name)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 800), img.Bounds())

	summary, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.True(t, summary.Complete())
}

func TestCancelAbortsAndDiscards(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	_, err := s.AddText(TextInput{Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, s.Cancel())
	assert.Equal(t, enums.SessionStateCancelled, s.State())
	assert.False(t, h.autosave.has(s.ID()))
	assert.Error(t, s.ctx.Err())

	_, err = s.Export(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	assert.Equal(t, 1, h.manager.Sweep(h.now))
	_, err = h.manager.Get(context.Background(), s.ID())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRestoreAfterEviction(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	require.NoError(t, s.Acknowledge())
	upload, err := s.Upload(context.Background(), ingest.Upload{Filename: "logo.png", Data: encodePNG(t, 200, 200)})
	require.NoError(t, err)
	_, err = s.Activate(enums.ViewLeft)
	require.NoError(t, err)
	_, err = s.AddText(TextInput{Content: "sleeve"})
	require.NoError(t, err)

	h.now = h.now.Add(2 * time.Hour)
	assert.Equal(t, 1, h.manager.Sweep(h.now))
	assert.Equal(t, 0, h.manager.Len())

	other, err := NewManager(context.Background(), h.deps, time.Hour)
	require.NoError(t, err)
	restored, err := other.Get(context.Background(), s.ID())
	require.NoError(t, err)

	status := restored.Status()
	assert.Equal(t, enums.SessionStateDesigning, status.State)
	assert.Equal(t, enums.ViewLeft, status.ActiveView)
	require.Len(t, status.Elements, 1)
	assert.True(t, status.Acknowledged)

	status, err = restored.Activate(enums.ViewFront)
	require.NoError(t, err)
	require.Len(t, status.Elements, 1)
	assert.Equal(t, upload.Element.Element.ID, status.Elements[0].Element.ID)

	summary, err := restored.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)

	same, err := other.Get(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Same(t, restored, same)
}

func TestRestoreKeepsViewsBesideACorruptOne(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	front, err := s.AddText(TextInput{Content: "front"})
	require.NoError(t, err)
	_, err = s.Activate(enums.ViewBack)
	require.NoError(t, err)
	_, err = s.AddText(TextInput{Content: "back"})
	require.NoError(t, err)

	h.now = h.now.Add(2 * time.Hour)
	require.Equal(t, 1, h.manager.Sweep(h.now))

	h.autosave.mu.Lock()
	var snap map[string]any
	if err := json.Unmarshal(h.autosave.data[s.ID()], &snap); err != nil {
		h.autosave.mu.Unlock()
		t.Fatalf("decode saved session: %v", err)
	}
	views := snap["document"].(map[string]any)["views"].(map[string]any)
	backEl := views["back"].(map[string]any)["elements"].([]any)[0].(map[string]any)
	delete(backEl, "id")
	h.autosave.data[s.ID()], err = json.Marshal(snap)
	h.autosave.mu.Unlock()
	require.NoError(t, err)

	other, err := NewManager(context.Background(), h.deps, time.Hour)
	require.NoError(t, err)
	restored, err := other.Get(context.Background(), s.ID())
	if err != nil {
		t.Fatalf("restore with one corrupt view: %v", err)
	}
	status := restored.Status()
	assert.Equal(t, enums.ViewBack, status.ActiveView)
	assert.Empty(t, status.Elements)

	status, err = restored.Activate(enums.ViewFront)
	require.NoError(t, err)
	require.Len(t, status.Elements, 1)
	assert.Equal(t, front.Element.ID, status.Elements[0].Element.ID)
}

func TestEvictedSessionRejectsEdits(t *testing.T) {
	h := newHarness(t)
	s := h.designing(t)
	_, err := s.AddText(TextInput{Content: "before"})
	require.NoError(t, err)

	h.now = h.now.Add(2 * time.Hour)
	require.Equal(t, 1, h.manager.Sweep(h.now))

	_, err = s.AddText(TextInput{Content: "after"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after eviction, got %v", err)
	}
	_, err = s.Review()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(s.Cancel(), pkgerrors.CodeNotFound))

	restored, err := h.manager.Get(context.Background(), s.ID())
	require.NoError(t, err)
	assert.NotSame(t, s, restored)
	status := restored.Status()
	assert.Equal(t, enums.SessionStateDesigning, status.State)
	require.Len(t, status.Elements, 1)
}

func TestGetUnknownSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.manager.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
