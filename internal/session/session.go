// Package session drives one design session: the live canvas, the four view
// documents, uploads, exports and the review and submission lifecycle.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/catalog"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/documents"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/export"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/ingest"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/layers"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/debounce"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage"
	"github.com/google/uuid"
)

// Recorder receives editor events for metrics.
type Recorder interface {
	export.Observer
	ObserveExport(purpose string, duration time.Duration)
	ViolationFlagged(view enums.View)
	Submitted(err error)
	SessionsActive(n int)
}

// Dependencies are the collaborators shared by every session.
type Dependencies struct {
	Catalog     catalog.Service
	Cart        cart.Service
	Pipeline    *ingest.Pipeline
	Calculator  *pricing.Calculator
	Fonts       *canvas.FontBook
	Backgrounds export.BackgroundLoader
	// Storage keeps uploaded assets and export previews. Optional.
	Storage storage.Store
	// Autosave persists sessions across restarts. Optional.
	Autosave Autosaver
	Recorder Recorder
	Canvas   config.CanvasConfig
	Clock    debounce.Clock
	Logger   *logger.Logger
	Now      func() time.Time
}

func (d *Dependencies) validate() error {
	if d.Catalog == nil {
		return fmt.Errorf("catalog service required")
	}
	if d.Cart == nil {
		return fmt.Errorf("cart service required")
	}
	if d.Pipeline == nil {
		return fmt.Errorf("ingest pipeline required")
	}
	if d.Calculator == nil {
		return fmt.Errorf("price calculator required")
	}
	if d.Fonts == nil {
		return fmt.Errorf("font book required")
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return nil
}

// DesignSession is one customer's editing session. Every exported method
// takes the session lock, which orders all edits like an event loop.
type DesignSession struct {
	mu sync.Mutex

	id         uuid.UUID
	cfg        *catalog.Configuration
	state      enums.SessionState
	deps       *Dependencies
	logg       *logger.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	lastActive time.Time

	engine     *constraints.Engine
	surface    *canvas.Surface
	store      *documents.Store
	layers     *layers.Manager
	exporter   *export.Exporter
	gate       ingest.AcknowledgmentGate
	assets     *assetTable
	formatting canvas.Formatting
	submitting bool
	submission *cart.Submission
	detached   bool
}

type restoreState struct {
	state        enums.SessionState
	document     *design.Document
	acknowledged bool
	processed    int
	assets       *assetTable
	submission   *cart.Submission
}

func newDesignSession(parent context.Context, deps *Dependencies, id uuid.UUID, cfg *catalog.Configuration, restored *restoreState) (*DesignSession, error) {
	ctx, cancel := context.WithCancel(parent)
	logg := deps.Logger
	s := &DesignSession{
		id:         id,
		cfg:        cfg,
		state:      enums.SessionStateEmpty,
		deps:       deps,
		logg:       logg,
		ctx:        logg.WithProductID(logg.WithSessionID(ctx, id.String()), cfg.ProductID.String()),
		cancel:     cancel,
		lastActive: deps.Now(),
		assets:     newAssetTable(),
	}

	registry := zones.NewRegistry(cfg.Zones)
	engine, err := constraints.NewEngine(constraints.Config{
		CanvasWidth:  float64(deps.Canvas.Width),
		CanvasHeight: float64(deps.Canvas.Height),
		SizeCapRatio: deps.Canvas.SizeCapRatio,
		MoveGrace:    deps.Canvas.MoveGrace,
	}, registry)
	if err != nil {
		cancel()
		return nil, err
	}
	s.engine = engine

	defaults := canvas.DefaultFormatting(deps.Canvas.DefaultFontSize, deps.Canvas.DefaultTextColor)
	s.formatting = defaults
	surface, err := canvas.NewSurface(canvas.Options{
		Width:     deps.Canvas.Width,
		Height:    deps.Canvas.Height,
		Engine:    engine,
		Measurer:  deps.Fonts,
		Listener:  canvas.FormattingFunc(func(f canvas.Formatting) { s.formatting = f }),
		Defaults:  defaults,
		ScaleStep: deps.Canvas.ScaleStep,
		OnEdit:    s.edited,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	s.surface = surface
	s.layers = layers.NewManager(surface)

	exporter, err := export.NewExporter(export.Options{
		CanvasWidth:  deps.Canvas.Width,
		CanvasHeight: deps.Canvas.Height,
		OutputSize:   deps.Canvas.OutputSize,
		Timeout:      deps.Canvas.ExportTimeout,
		Engine:       engine,
		Text:         deps.Fonts,
		Backgrounds:  deps.Backgrounds,
		Observer:     deps.Recorder,
		Logger:       logg,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	s.exporter = exporter

	var doc *design.Document
	if restored != nil {
		doc = restored.document
		s.state = restored.state
		s.assets = restored.assets
		s.submission = restored.submission
		if restored.acknowledged {
			s.gate.Acknowledge()
		}
		for i := 0; i < restored.processed; i++ {
			s.gate.Record()
		}
	}

	store, err := documents.NewStore(s.ctx, documents.Options{
		Surface:     surface,
		Document:    doc,
		Zones:       registry,
		Backgrounds: cfg,
		Delay:       deps.Canvas.Debounce,
		Clock:       deps.Clock,
		Guard:       &s.mu,
		Logger:      logg,
		Observer:    s,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	s.store = store
	s.store.Open()
	return s, nil
}

// ID returns the session identifier.
func (s *DesignSession) ID() uuid.UUID { return s.id }

// Configuration returns the product configuration being designed.
func (s *DesignSession) Configuration() *catalog.Configuration { return s.cfg }

// State returns the current lifecycle state.
func (s *DesignSession) State() enums.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Flushed implements documents.FlushObserver. It runs with the lock held.
func (s *DesignSession) Flushed(*design.Document) {
	s.autosave()
}

func (s *DesignSession) edited() {
	s.store.MarkDirty()
}

func (s *DesignSession) touch() {
	s.lastActive = s.deps.Now()
}

func (s *DesignSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// transition moves to next when the lifecycle allows it.
func (s *DesignSession) transition(next enums.SessionState) error {
	if s.detached {
		return errDetached()
	}
	if s.submitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "a submission is in progress")
	}
	if !s.state.CanTransitionTo(next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move from %s to %s", s.state, next)).
			WithDetails(map[string]any{"state": s.state.String()})
	}
	s.logg.Info(s.logg.WithFields(s.ctx, map[string]any{"from": s.state.String(), "to": next.String()}), "session state changed")
	s.state = next
	return nil
}

// require fails unless the session is in one of the allowed states.
func (s *DesignSession) require(allowed ...enums.SessionState) error {
	if s.detached {
		return errDetached()
	}
	for _, state := range allowed {
		if s.state == state {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("operation not allowed while %s", s.state)).
		WithDetails(map[string]any{"state": s.state.String()})
}

// errDetached is returned to callers still holding a session the manager has
// evicted. Fetching it again restores the saved copy.
func errDetached() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "design session expired; reload it")
}

func (s *DesignSession) requireDesigning() error {
	if s.submitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "a submission is in progress")
	}
	return s.require(enums.SessionStateDesigning)
}

// close drops pending work and aborts in-flight exports. The caller holds
// the lock.
func (s *DesignSession) close() {
	s.store.Close()
	s.cancel()
}

// detach flushes pending edits, saves the session and releases it. Used when
// a session is evicted from memory but may be restored later.
func (s *DesignSession) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	if !s.store.FlushPending() {
		s.autosave()
	}
	s.detached = true
	s.close()
}
