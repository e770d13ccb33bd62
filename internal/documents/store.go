// Package documents keeps the per-view design documents behind the single
// live canvas and moves content in and out of it on view switches.
package documents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/debounce"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
)

// BackgroundResolver returns the garment image reference for a view of the
// selected variant.
type BackgroundResolver interface {
	Background(view enums.View) string
}

// FlushObserver is told about every completed serialization.
type FlushObserver interface {
	Flushed(doc *design.Document)
}

// Options configures a Store.
type Options struct {
	Surface     *canvas.Surface
	Document    *design.Document
	Zones       constraints.ZoneSource
	Backgrounds BackgroundResolver
	Delay       time.Duration
	Clock       debounce.Clock
	// Guard is the owner's lock; timer-driven serialization takes it.
	Guard    sync.Locker
	Logger   *logger.Logger
	Observer FlushObserver
}

// Store owns the four view documents and the active view pointer. All methods
// expect the owner's lock to be held.
type Store struct {
	surface     *canvas.Surface
	doc         *design.Document
	zones       constraints.ZoneSource
	backgrounds BackgroundResolver
	logg        *logger.Logger
	observer    FlushObserver
	task        *debounce.Task
	background  string
	ctx         context.Context
}

func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Surface == nil {
		return nil, fmt.Errorf("canvas surface required")
	}
	if opts.Document == nil {
		opts.Document = design.NewDocument()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Delay <= 0 {
		opts.Delay = 100 * time.Millisecond
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Store{
		surface:     opts.Surface,
		doc:         opts.Document,
		zones:       opts.Zones,
		backgrounds: opts.Backgrounds,
		logg:        opts.Logger,
		observer:    opts.Observer,
		ctx:         ctx,
	}
	s.task = debounce.New(s.serialize, debounce.Options{
		Delay: opts.Delay,
		Clock: opts.Clock,
		Guard: opts.Guard,
	})
	return s, nil
}

// Open loads the active view of the document into the surface. It is used on
// creation and when a session is restored.
func (s *Store) Open() {
	s.load(s.doc.Active)
}

func (s *Store) Active() enums.View { return s.doc.Active }

// Background is the garment image reference shown behind the active view.
func (s *Store) Background() string { return s.background }

// Document returns the backing design. Callers must flush first if they need
// the latest live edits.
func (s *Store) Document() *design.Document { return s.doc }

// MarkDirty schedules a debounced serialization of the live canvas.
func (s *Store) MarkDirty() {
	s.task.Schedule()
}

// Pending reports whether live edits are not serialized yet.
func (s *Store) Pending() bool {
	return s.task.Pending()
}

// FlushPending forces any scheduled serialization to run now.
func (s *Store) FlushPending() bool {
	return s.task.Flush()
}

// Close drops a pending serialization without running it.
func (s *Store) Close() {
	s.task.Cancel()
}

// Activate switches the live canvas to view. Activating the current view
// leaves content untouched.
func (s *Store) Activate(view enums.View) error {
	if !view.IsValid() {
		return fmt.Errorf("invalid view %q", view)
	}
	if view == s.doc.Active {
		return nil
	}
	if !s.task.Flush() {
		s.serialize()
	}
	s.load(view)
	s.logg.Debug(s.logg.WithView(s.ctx, string(view)), "view activated")
	return nil
}

// load fills the surface from the stored slot of view and points the store
// at it. A snapshot that cannot be restored leaves the view empty.
func (s *Store) load(view enums.View) {
	s.surface.Clear()
	s.surface.SetView(view)
	s.doc.Active = view

	vd, err := s.doc.View(view)
	if err != nil {
		s.logg.Error(s.logg.WithView(s.ctx, string(view)), "restoring view snapshot failed; view reset to empty", err)
		s.doc.Drop(view)
		vd = design.NewViewDocument(view)
	}
	if err := s.surface.Load(vd); err != nil {
		s.logg.Error(s.logg.WithView(s.ctx, string(view)), "loading view onto canvas failed; view reset to empty", err)
		s.surface.Clear()
		s.doc.Drop(view)
	}

	if s.zones != nil {
		s.surface.ShowGuides(s.zones.ZonesFor(view))
	}
	s.background = ""
	if s.backgrounds != nil {
		s.background = s.backgrounds.Background(view)
	}
}

// serialize writes the live canvas into the active slot.
func (s *Store) serialize() {
	view := s.doc.Active
	snapshot := s.surface.Snapshot()
	snapshot.View = view
	data, err := snapshot.Marshal()
	if err != nil {
		s.logg.Error(s.logg.WithView(s.ctx, string(view)), "serializing view failed; keeping previous snapshot", err)
		return
	}
	s.doc.Store(view, data)
	if s.observer != nil {
		s.observer.Flushed(s.doc)
	}
}
