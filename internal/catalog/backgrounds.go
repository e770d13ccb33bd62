package catalog

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// Backgrounds decodes garment photos from storage and keeps them in memory.
// Decoded images are shared read-only between exports.
type Backgrounds struct {
	store storage.Store
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewBackgrounds(store storage.Store) *Backgrounds {
	return &Backgrounds{store: store, cache: map[string]image.Image{}}
}

// LoadBackground implements export.BackgroundLoader.
func (b *Backgrounds) LoadBackground(ctx context.Context, ref string) (image.Image, error) {
	b.mu.RLock()
	img, ok := b.cache[ref]
	b.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := b.group.Do(ref, func() (any, error) {
		data, err := b.store.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding background %s: %w", ref, err)
		}
		b.mu.Lock()
		b.cache[ref] = decoded
		b.mu.Unlock()
		return decoded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}
