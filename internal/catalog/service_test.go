package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db/models"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.ProductVariant{}))
	return conn
}

const zoneJSON = `{"front":[{"id":"chest","name":"Chest","x":0.25,"y":0.25,"width":0.5,"height":0.3}]}`

func seedProduct(t *testing.T, repo *Repository, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:         "classic-tee-" + uuid.NewString()[:8],
		Name:         "Classic Tee",
		BasePrice:    decimal.RequireFromString("19.90"),
		Currency:     "EUR",
		Sizes:        []string{"S", "M", "L"},
		ZoneDocument: json.RawMessage(zoneJSON),
		IsActive:     true,
		Variants: []models.ProductVariant{
			{Name: "Black", ColorHex: "#000000", FrontImage: "garments/black-front.png"},
			{Name: "White", ColorHex: "#ffffff", FrontImage: "garments/white-front.png", BackImage: "garments/white-back.png", IsDefault: true},
		},
	}
	created, err := repo.CreateProduct(context.Background(), product)
	require.NoError(t, err)
	if !active {
		require.NoError(t, repo.db.Model(created).Update("is_active", false).Error)
	}
	return created
}

func TestConfigurationResolvesDefaultVariant(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	product := seedProduct(t, repo, true)
	svc, err := NewService(repo)
	require.NoError(t, err)

	cfg, err := svc.Configuration(context.Background(), product.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "White", cfg.VariantName)
	assert.True(t, cfg.BasePrice.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, []string{"S", "M", "L"}, cfg.Sizes)
	assert.True(t, cfg.HasSize("M"))
	assert.False(t, cfg.HasSize("XXL"))
	assert.Equal(t, "garments/white-back.png", cfg.Background(enums.ViewBack))
	assert.Empty(t, cfg.Background(enums.ViewLeft))
	require.Len(t, cfg.Zones.Front, 1)
	assert.Equal(t, "chest", cfg.Zones.Front[0].ID)
}

func TestConfigurationExplicitVariant(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	product := seedProduct(t, repo, true)
	svc, err := NewService(repo)
	require.NoError(t, err)

	var black uuid.UUID
	for _, v := range product.Variants {
		if v.Name == "Black" {
			black = v.ID
		}
	}
	cfg, err := svc.Configuration(context.Background(), product.ID, black)
	require.NoError(t, err)
	assert.Equal(t, "garments/black-front.png", cfg.Background(enums.ViewFront))

	_, err = svc.Configuration(context.Background(), product.ID, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestConfigurationMissingOrInactive(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	inactive := seedProduct(t, repo, false)
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Configuration(context.Background(), uuid.New(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Configuration(context.Background(), inactive.ID, uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

type countingStore struct {
	objects map[string][]byte
	gets    int32
}

func (s *countingStore) Put(_ context.Context, key, _ string, data []byte) error {
	s.objects[key] = data
	return nil
}

func (s *countingStore) Get(_ context.Context, key string) ([]byte, error) {
	atomic.AddInt32(&s.gets, 1)
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func TestBackgroundsDecodeAndCache(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	store := &countingStore{objects: map[string][]byte{"garments/front.png": buf.Bytes(), "garments/bad.png": []byte("nope")}}
	bg := NewBackgrounds(store)

	first, err := bg.LoadBackground(context.Background(), "garments/front.png")
	require.NoError(t, err)
	second, err := bg.LoadBackground(context.Background(), "garments/front.png")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), store.gets)

	_, err = bg.LoadBackground(context.Background(), "garments/missing.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = bg.LoadBackground(context.Background(), "garments/bad.png")
	assert.Error(t, err)
}
