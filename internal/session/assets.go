package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage"
)

const assetContentType = "image/png"

// assetTable holds the decoded bitmaps of a session keyed by asset id. Images
// are never mutated after insertion, so copies of the table can be handed to
// exports.
type assetTable struct {
	mu     sync.RWMutex
	images map[string]image.Image
	keys   map[string]string
}

func newAssetTable() *assetTable {
	return &assetTable{images: map[string]image.Image{}, keys: map[string]string{}}
}

// Asset implements canvas.AssetSource.
func (t *assetTable) Asset(id string) (image.Image, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	img, ok := t.images[id]
	return img, ok
}

func (t *assetTable) put(id string, img image.Image, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images[id] = img
	if key != "" {
		t.keys[id] = key
	}
}

func (t *assetTable) storageKeys() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.keys))
	for id, key := range t.keys {
		out[id] = key
	}
	return out
}

func (t *assetTable) clone() *assetTable {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := newAssetTable()
	for id, img := range t.images {
		out.images[id] = img
	}
	for id, key := range t.keys {
		out.keys[id] = key
	}
	return out
}

func assetKey(sessionID, assetID string) string {
	return fmt.Sprintf("sessions/%s/assets/%s.png", sessionID, assetID)
}

func previewKey(sessionID, fileName string) string {
	return fmt.Sprintf("sessions/%s/previews/%s", sessionID, fileName)
}

// archiveAsset stores the normalized bitmap so a restored session can
// reload it.
func archiveAsset(ctx context.Context, store storage.Store, key string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding asset: %w", err)
	}
	return store.Put(ctx, key, assetContentType, buf.Bytes())
}

// loadAssets fetches and decodes archived bitmaps. A missing asset is
// skipped; the views using it fail to export until it is replaced.
func loadAssets(ctx context.Context, store storage.Store, keys map[string]string) (*assetTable, []string, error) {
	table := newAssetTable()
	var missing []string
	for id, key := range keys {
		if store == nil {
			missing = append(missing, id)
			continue
		}
		data, err := store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				missing = append(missing, id)
				continue
			}
			return nil, nil, fmt.Errorf("loading asset %s: %w", id, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			missing = append(missing, id)
			continue
		}
		table.put(id, img, key)
	}
	return table, missing, nil
}
