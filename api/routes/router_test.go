package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/controllers"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/catalog"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/ingest"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	pkgAuth "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/auth"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/debounce"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/metrics"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage/local"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

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
}

func (s *stubCart) Submit(_ context.Context, in cart.SubmitInput) (*cart.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, in)
	return &cart.Submission{
		ID:        in.SubmissionID,
		SessionID: in.SessionID,
		Total:     in.Quote.Total,
		Currency:  in.Configuration.Currency,
	}, nil
}

func (s *stubCart) GetSubmission(context.Context, uuid.UUID) (*cart.Submission, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
}

func (s *stubCart) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

type memoryIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key], _ = value.(string)
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("test:%s:%s", scope, id)
}

func (m *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type testServer struct {
	handler http.Handler
	cfg     *config.Config
	product *catalog.Configuration
	cart    *stubCart
	clock   *debounce.ManualClock
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "shirtshop", ExpirationMinutes: 30},
		Canvas: config.CanvasConfig{
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
		},
		Media: config.MediaConfig{
			MinBytes:          100,
			MaxUploadMB:       10,
			MinPixels:         100,
			MaxPixels:         4000,
			MaxDecodePixels:   40_000_000,
			RecommendedPixels: 1000,
			WorkspaceWidth:    0.5,
			WorkspaceHeight:   0.4,
		},
		RateLimit: config.RateLimitConfig{UploadWindow: time.Minute, UploadLimit: 20},
	}
}

func newTestServer(t *testing.T, readiness map[string]controllers.Pinger) *testServer {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	recorder := metrics.NewEditorMetrics(reg)

	pipeline, err := ingest.NewPipeline(ingest.RulesFromConfig(cfg.Media, cfg.Canvas), recorder)
	require.NoError(t, err)
	calc, err := pricing.NewCalculator(decimal.NewFromInt(10), "EUR")
	require.NoError(t, err)
	fonts, err := canvas.NewFontBook()
	require.NoError(t, err)
	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	ts := &testServer{
		cfg:   cfg,
		cart:  &stubCart{},
		clock: debounce.NewManualClock(),
		product: &catalog.Configuration{
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

	manager, err := session.NewManager(context.Background(), session.Dependencies{
		Catalog:    stubCatalog{cfg: ts.product},
		Cart:       ts.cart,
		Pipeline:   pipeline,
		Calculator: calc,
		Fonts:      fonts,
		Storage:    store,
		Recorder:   recorder,
		Canvas:     cfg.Canvas,
		Clock:      ts.clock,
		Logger:     logger.Nop(),
	}, time.Hour)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	ts.handler = NewRouter(cfg, logger.Nop(), Dependencies{
		Sessions:    manager,
		Idempotency: &memoryIdempotencyStore{data: map[string]string{}},
		Metrics:     reg,
		Readiness:   readiness,
	})
	return ts
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

type createdSession struct {
	Token   string         `json:"token"`
	Session session.Status `json:"session"`
}

func (ts *testServer) create(t *testing.T) createdSession {
	t.Helper()
	rec, env := ts.do(t, http.MethodPost, "/api/v1/sessions", "", map[string]string{"productId": ts.product.ProductID.String()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out createdSession
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out
}

func sessionPath(id uuid.UUID, suffix string) string {
	return "/api/v1/sessions/" + id.String() + suffix
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 3), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, path, token, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealthRoutes(t *testing.T) {
	ts := newTestServer(t, map[string]controllers.Pinger{"db": stubPinger{}})

	rec, _ := ts.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Shirtshop-Env"))

	rec, _ = ts.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsFailedDependency(t *testing.T) {
	ts := newTestServer(t, map[string]controllers.Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: fmt.Errorf("connection refused")},
	})

	rec, env := ts.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeDependency), env.Error.Code)
}

func TestSessionRoutesRequireMatchingToken(t *testing.T) {
	ts := newTestServer(t, nil)
	created := ts.create(t)
	id := created.Session.ID

	rec, _ := ts.do(t, http.MethodGet, sessionPath(id, ""), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	foreign, err := pkgAuth.MintSessionToken(ts.cfg.JWT, time.Now(), pkgAuth.SessionTokenPayload{SessionID: uuid.New()})
	require.NoError(t, err)
	rec, _ = ts.do(t, http.MethodGet, sessionPath(id, ""), foreign, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := ts.do(t, http.MethodGet, sessionPath(id, ""), created.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status session.Status
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, id, status.ID)
	assert.Equal(t, "empty", string(status.State))
}

func TestCreateSessionValidatesProduct(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/sessions", "", map[string]string{"productId": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/sessions", "", map[string]string{"productId": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDesignFlowThroughSubmit(t *testing.T) {
	ts := newTestServer(t, nil)
	created := ts.create(t)
	id, token := created.Session.ID, created.Token

	rec, _ := ts.do(t, http.MethodPost, sessionPath(id, "/views/front/activate"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := ts.do(t, http.MethodPost, sessionPath(id, "/texts"), token, map[string]any{"content": "Hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var text session.ElementView
	require.NoError(t, json.Unmarshal(env.Data, &text))
	elementID := text.Element.ID

	rec, _ = ts.do(t, http.MethodPatch, sessionPath(id, "/elements/"+elementID+"/text"), token, map[string]any{"bold": true, "fill": "#ff0000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = ts.do(t, http.MethodPatch, sessionPath(id, "/elements/"+elementID+"/text"), token, map[string]any{"fill": "red"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)

	rec, env = ts.do(t, http.MethodPost, sessionPath(id, "/gestures"), token, map[string]any{"phase": "press", "x": 300, "y": 300})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var press session.GestureResult
	require.NoError(t, json.Unmarshal(env.Data, &press))
	assert.True(t, press.Hit)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/gestures"), token, map[string]any{"phase": "release", "x": 300, "y": 300})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/elements/"+elementID+"/transform"), token, map[string]any{"action": "flip-x"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = ts.do(t, http.MethodPost, sessionPath(id, "/elements/"+elementID+"/transform"), token, map[string]any{"action": "rotate"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	up := multipartUpload(t, sessionPath(id, "/uploads"), token, "logo.png", encodePNG(t, 200, 200))
	upRec := httptest.NewRecorder()
	ts.handler.ServeHTTP(upRec, up)
	assert.Equal(t, http.StatusPreconditionRequired, upRec.Code)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/acknowledge"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	up = multipartUpload(t, sessionPath(id, "/uploads"), token, "logo.png", encodePNG(t, 200, 200))
	upRec = httptest.NewRecorder()
	ts.handler.ServeHTTP(upRec, up)
	require.Equal(t, http.StatusCreated, upRec.Code, upRec.Body.String())

	rec, env = ts.do(t, http.MethodGet, sessionPath(id, "/layers"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var layers struct {
		Layers []session.LayerEntry `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &layers))
	require.Len(t, layers.Layers, 2)
	assert.Equal(t, "Image", layers.Layers[0].Label)
	assert.Equal(t, "Hello", layers.Layers[1].Label)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/elements/"+elementID+"/layer"), token, map[string]any{"move": "front"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = ts.do(t, http.MethodGet, sessionPath(id, "/exports/front.png"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Front")
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 800), img.Bounds())

	rec, _ = ts.do(t, http.MethodGet, sessionPath(id, "/exports/back.png"), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/submit"), token, map[string]any{"quantities": map[string]int{"M": 1}}, "Idempotency-Key", "early")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/review"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = ts.do(t, http.MethodPost, sessionPath(id, "/quote"), token, map[string]any{"quantities": map[string]int{"M": 2}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var quote struct {
		PerUnit string `json:"perUnit"`
		Total   string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "39.90", quote.PerUnit)
	assert.Equal(t, "79.80", quote.Total)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/submit"), token, map[string]any{"quantities": map[string]int{"M": 2}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "submit requires an idempotency key")

	body := map[string]any{"quantities": map[string]int{"M": 2}}
	first, _ := ts.do(t, http.MethodPost, sessionPath(id, "/submit"), token, body, "Idempotency-Key", "submit-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	replay, _ := ts.do(t, http.MethodPost, sessionPath(id, "/submit"), token, body, "Idempotency-Key", "submit-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, ts.cart.calls())

	rec, env = ts.do(t, http.MethodGet, sessionPath(id, ""), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status session.Status
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "submitted", string(status.State))
	require.NotNil(t, status.SubmissionID)

	rec, env = ts.do(t, http.MethodDelete, sessionPath(id, "/elements/"+elementID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeStateConflict), env.Error.Code)
}

func TestDeleteAndCancel(t *testing.T) {
	ts := newTestServer(t, nil)
	created := ts.create(t)
	id, token := created.Session.ID, created.Token

	rec, _ := ts.do(t, http.MethodPost, sessionPath(id, "/views/back/activate"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := ts.do(t, http.MethodPost, sessionPath(id, "/texts"), token, map[string]any{"content": "Back"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var text session.ElementView
	require.NoError(t, json.Unmarshal(env.Data, &text))

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/views/sleeve/activate"), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodDelete, sessionPath(id, "/elements/"+text.Element.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = ts.do(t, http.MethodDelete, sessionPath(id, "/elements/"+text.Element.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/cancel"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, sessionPath(id, "/texts"), token, map[string]any{"content": "late"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
