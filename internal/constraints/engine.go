package constraints

import (
	"fmt"
	"math"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
)

const (
	ReasonSizeCap       = "element exceeds the maximum printable size"
	ReasonOutsideZones  = "element is outside every printable zone"
	ReasonTooLargeZones = "element is larger than every printable zone"
	ReasonZoneSizeLimit = "element size is outside the zone size limits"
)

// ZoneSource resolves the zones constraining a view.
type ZoneSource interface {
	ZonesFor(view enums.View) []zones.Zone
}

// Violation is the transient, advisory outcome of a check. It is never
// serialized with the element.
type Violation struct {
	Violating bool   `json:"violating"`
	Reason    string `json:"reason,omitempty"`
	ZoneID    string `json:"zoneId,omitempty"`
}

// Config sizes the canvas the zones are projected on.
type Config struct {
	CanvasWidth  float64
	CanvasHeight float64
	SizeCapRatio float64
	MoveGrace    int
}

// Engine validates and clamps element geometry. It holds no per-element state.
type Engine struct {
	cfg   Config
	zones ZoneSource
}

func NewEngine(cfg Config, source ZoneSource) (*Engine, error) {
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive")
	}
	if cfg.SizeCapRatio <= 0 || cfg.SizeCapRatio > 1 {
		return nil, fmt.Errorf("size cap ratio must be in (0,1]")
	}
	if cfg.MoveGrace < 0 {
		return nil, fmt.Errorf("move grace cannot be negative")
	}
	if source == nil {
		source = zones.NewRegistry(zones.Document{})
	}
	return &Engine{cfg: cfg, zones: source}, nil
}

// Evaluate classifies el on view without touching it.
func (e *Engine) Evaluate(view enums.View, el design.Element) Violation {
	w, h := el.ScaledSize()
	if e.exceedsCap(w, h) {
		return Violation{Violating: true, Reason: ReasonSizeCap}
	}

	zs := e.zones.ZonesFor(view)
	if len(zs) == 0 {
		return Violation{}
	}

	bounds := el.Bounds()
	fitsAny := false
	for _, z := range zs {
		rect := z.Rect(e.cfg.CanvasWidth, e.cfg.CanvasHeight)
		if !rect.Fits(w, h) || !withinSizeLimits(z, w, h) {
			continue
		}
		fitsAny = true
		if rect.Contains(bounds) {
			return Violation{ZoneID: z.ID}
		}
	}
	if fitsAny {
		return Violation{Violating: true, Reason: ReasonOutsideZones}
	}
	for _, z := range zs {
		if z.Rect(e.cfg.CanvasWidth, e.cfg.CanvasHeight).Fits(w, h) {
			return Violation{Violating: true, Reason: ReasonZoneSizeLimit}
		}
	}
	return Violation{Violating: true, Reason: ReasonTooLargeZones}
}

// Correct runs the gesture-completion check. A violating element is moved
// into the zone whose center is nearest its own, one axis at a time, and
// re-evaluated. Scale is never changed. It reports whether the center moved.
func (e *Engine) Correct(view enums.View, el *design.Element) (Violation, bool) {
	v := e.Evaluate(view, *el)
	if !v.Violating {
		return v, false
	}
	zs := e.zones.ZonesFor(view)
	if len(zs) == 0 {
		return v, false
	}

	bounds := el.Bounds()
	nearest := zs[0].Rect(e.cfg.CanvasWidth, e.cfg.CanvasHeight)
	best := nearest.Distance(bounds)
	for _, z := range zs[1:] {
		rect := z.Rect(e.cfg.CanvasWidth, e.cfg.CanvasHeight)
		if d := rect.Distance(bounds); d < best {
			nearest, best = rect, d
		}
	}

	w, h := el.ScaledSize()
	cx := clampAxis(el.Transform.CenterX, w, nearest.MinX, nearest.MaxX)
	cy := clampAxis(el.Transform.CenterY, h, nearest.MinY, nearest.MaxY)
	moved := cx != el.Transform.CenterX || cy != el.Transform.CenterY
	el.Transform.CenterX, el.Transform.CenterY = cx, cy

	return e.Evaluate(view, *el), moved
}

// BeginGesture starts tracking a press, drag, release sequence.
func (e *Engine) BeginGesture() *Gesture {
	return &Gesture{grace: e.cfg.MoveGrace}
}

func (e *Engine) exceedsCap(w, h float64) bool {
	maxW := e.cfg.CanvasWidth * e.cfg.SizeCapRatio
	maxH := e.cfg.CanvasHeight * e.cfg.SizeCapRatio
	return w > maxW+design.Epsilon || h > maxH+design.Epsilon
}

func withinSizeLimits(z zones.Zone, w, h float64) bool {
	longest := math.Max(w, h)
	if z.MaxSize != nil && longest > *z.MaxSize+design.Epsilon {
		return false
	}
	if z.MinSize != nil && longest < *z.MinSize-design.Epsilon {
		return false
	}
	return true
}

// clampAxis keeps a span of the given extent inside [lo, hi]; a span wider
// than the range is centered on it.
func clampAxis(center, extent, lo, hi float64) float64 {
	half := extent / 2
	if extent > hi-lo {
		return (lo + hi) / 2
	}
	return math.Min(math.Max(center, lo+half), hi-half)
}
