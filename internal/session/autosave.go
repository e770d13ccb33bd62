package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/google/uuid"
)

const autosaveTimeout = 3 * time.Second

// ErrNoSnapshot is returned by an Autosaver that holds nothing for a session.
var ErrNoSnapshot = errors.New("no saved session")

// Autosaver persists serialized sessions.
type Autosaver interface {
	Save(ctx context.Context, sessionID uuid.UUID, payload []byte) error
	Load(ctx context.Context, sessionID uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// Snapshot is the persisted form of a session. Live canvas state is captured
// through the last flush of the active view.
type Snapshot struct {
	ID           uuid.UUID          `json:"id"`
	ProductID    uuid.UUID          `json:"productId"`
	VariantID    uuid.UUID          `json:"variantId"`
	State        enums.SessionState `json:"state"`
	Document     *design.Document   `json:"document"`
	Acknowledged bool               `json:"acknowledged"`
	Processed    int                `json:"processed"`
	Assets       map[string]string  `json:"assets"`
	Submission   *cart.Submission   `json:"submission,omitempty"`
	SavedAt      time.Time          `json:"savedAt"`
}

func (s *DesignSession) snapshot() Snapshot {
	return Snapshot{
		ID:           s.id,
		ProductID:    s.cfg.ProductID,
		VariantID:    s.cfg.VariantID,
		State:        s.state,
		Document:     s.store.Document(),
		Acknowledged: s.gate.Acknowledged(),
		Processed:    s.gate.Processed(),
		Assets:       s.assets.storageKeys(),
		Submission:   s.submission,
		SavedAt:      s.deps.Now().UTC(),
	}
}

// autosave writes the session with the lock held. Failures are logged; the
// in-memory session stays authoritative.
func (s *DesignSession) autosave() {
	if s.deps.Autosave == nil || s.state == enums.SessionStateCancelled {
		return
	}
	payload, err := json.Marshal(s.snapshot())
	if err != nil {
		s.logg.Error(s.ctx, "serializing session failed", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), autosaveTimeout)
	defer cancel()
	if err := s.deps.Autosave.Save(ctx, s.id, payload); err != nil {
		s.logg.Error(s.ctx, "autosave failed", err)
	}
}

func (s *DesignSession) discard() {
	if s.deps.Autosave == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), autosaveTimeout)
	defer cancel()
	if err := s.deps.Autosave.Delete(ctx, s.id); err != nil {
		s.logg.Error(s.ctx, "removing autosave failed", err)
	}
}

func decodeSnapshot(payload []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decoding session snapshot: %w", err)
	}
	if snap.ID == uuid.Nil {
		return nil, fmt.Errorf("session snapshot has no id")
	}
	if !snap.State.IsValid() {
		return nil, fmt.Errorf("session snapshot has invalid state %q", snap.State)
	}
	if snap.Document == nil {
		snap.Document = design.NewDocument()
	}
	return &snap, nil
}
