package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Manager owns the live sessions of this process.
type Manager struct {
	deps    Dependencies
	root    context.Context
	idleTTL time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*DesignSession
	restores singleflight.Group
}

// NewManager builds a session registry. Sessions idle longer than idleTTL are
// evicted by Sweep; zero disables eviction.
func NewManager(root context.Context, deps Dependencies, idleTTL time.Duration) (*Manager, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if root == nil {
		root = context.Background()
	}
	return &Manager{
		deps:     deps,
		root:     root,
		idleTTL:  idleTTL,
		sessions: map[uuid.UUID]*DesignSession{},
	}, nil
}

// Create opens a new session on productID. A nil variantID selects the
// default variant.
func (m *Manager) Create(ctx context.Context, productID, variantID uuid.UUID) (*DesignSession, error) {
	cfg, err := m.deps.Catalog.Configuration(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}
	s, err := newDesignSession(m.root, &m.deps, uuid.New(), cfg, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating design session")
	}

	s.mu.Lock()
	s.autosave()
	s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.reportActive(n)

	m.deps.Logger.Info(s.ctx, "design session created")
	return s, nil
}

// Get returns a live session, restoring it from the autosave when this
// process does not hold it.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*DesignSession, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}
	if m.deps.Autosave == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design session not found")
	}

	v, err, _ := m.restores.Do(id.String(), func() (any, error) {
		m.mu.RLock()
		existing, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			return existing, nil
		}
		return m.restore(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*DesignSession), nil
}

func (m *Manager) restore(ctx context.Context, id uuid.UUID) (*DesignSession, error) {
	payload, err := m.deps.Autosave.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading saved session")
	}
	snap, err := decodeSnapshot(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring design session")
	}
	if snap.State.IsTerminal() && snap.Submission == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design session not found")
	}

	cfg, err := m.deps.Catalog.Configuration(ctx, snap.ProductID, snap.VariantID)
	if err != nil {
		return nil, err
	}
	assets, missing, err := loadAssets(ctx, m.deps.Storage, snap.Assets)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restoring design session")
	}

	s, err := newDesignSession(m.root, &m.deps, snap.ID, cfg, &restoreState{
		state:        snap.State,
		document:     snap.Document,
		acknowledged: snap.Acknowledged,
		processed:    snap.Processed,
		assets:       assets,
		submission:   snap.Submission,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring design session")
	}
	if len(missing) > 0 {
		m.deps.Logger.Warn(m.deps.Logger.WithField(s.ctx, "missing_assets", missing), "restored session without some images")
	}
	if dropped := snap.Document.Dropped(); len(dropped) > 0 {
		m.deps.Logger.Warn(m.deps.Logger.WithField(s.ctx, "dropped_views", dropped), "restored session with corrupt views cleared")
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.reportActive(n)

	m.deps.Logger.Info(s.ctx, "design session restored")
	return s, nil
}

// Len reports how many sessions are held in memory.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle since before now minus the idle timeout and
// finished sessions. Evicted sessions are saved first, so Get can restore
// them. It returns the number evicted.
func (m *Manager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTTL)

	m.mu.Lock()
	var evicted []*DesignSession
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) || s.State().IsTerminal() {
			evicted = append(evicted, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range evicted {
		s.detach()
	}
	if len(evicted) > 0 {
		m.reportActive(n)
		m.deps.Logger.Info(m.deps.Logger.WithField(m.root, "evicted", len(evicted)), "idle design sessions evicted")
	}
	return len(evicted)
}

// Run sweeps on every tick until ctx ends.
func (m *Manager) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Sweep(m.deps.Now())
		}
	}
}

// Shutdown saves and releases every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*DesignSession, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.detach()
	}
	m.reportActive(0)
}

func (m *Manager) reportActive(n int) {
	if m.deps.Recorder != nil {
		m.deps.Recorder.SessionsActive(n)
	}
}
