package canvas

import (
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
)

// Handle is the render-side object for one entry on the surface. Domain data
// lives in Element for design handles and in Area for guides and labels.
type Handle struct {
	id             string
	purpose        enums.LayerPurpose
	exportExcluded bool
	element        design.Element
	area           design.Rect
	label          string
	stroke         design.Stroke
	violation      constraints.Violation
}

func (h *Handle) ID() string { return h.id }
func (h *Handle) Purpose() enums.LayerPurpose { return h.purpose }
func (h *Handle) ExportExcluded() bool { return h.exportExcluded }
func (h *Handle) Element() design.Element { return h.element.Clone() }
func (h *Handle) Area() design.Rect { return h.area }
func (h *Handle) Label() string { return h.label }
func (h *Handle) Violation() constraints.Violation { return h.violation }

// Stroke and SetStroke let the constraint signaler swap outlines.
func (h *Handle) Stroke() design.Stroke { return h.stroke }
func (h *Handle) SetStroke(stroke design.Stroke) { h.stroke = stroke }

// bounds is the on-canvas footprint of the handle.
func (h *Handle) bounds() design.Rect {
	if h.purpose == enums.LayerPurposeDesign {
		return h.element.Bounds()
	}
	return h.area
}
