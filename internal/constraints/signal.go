package constraints

import (
	"image/color"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
)

// ViolationStroke is the outline applied to violating elements.
var ViolationStroke = design.Stroke{
	Color: color.RGBA{R: 0xe5, G: 0x1c, B: 0x23, A: 0xff},
	Width: 3,
	Dash:  []float64{6, 4},
}

// Styled is anything carrying a stroke the signaler can swap.
type Styled interface {
	Stroke() design.Stroke
	SetStroke(design.Stroke)
}

// Signaler swaps element strokes in and out of the violation style while
// remembering the original so repeated flag and clear cycles are lossless.
type Signaler struct {
	saved map[string]design.Stroke
}

func NewSignaler() *Signaler {
	return &Signaler{saved: map[string]design.Stroke{}}
}

// Apply reflects v on target.
func (s *Signaler) Apply(id string, target Styled, v Violation) {
	if v.Violating {
		if _, flagged := s.saved[id]; !flagged {
			s.saved[id] = target.Stroke()
		}
		target.SetStroke(ViolationStroke)
		return
	}
	if original, flagged := s.saved[id]; flagged {
		target.SetStroke(original)
		delete(s.saved, id)
	}
}

// Flagged reports whether id currently wears the violation stroke.
func (s *Signaler) Flagged(id string) bool {
	_, ok := s.saved[id]
	return ok
}

// Forget drops any memory of id, used when the element leaves the canvas.
func (s *Signaler) Forget(id string) {
	delete(s.saved, id)
}

// Reset forgets every element.
func (s *Signaler) Reset() {
	s.saved = map[string]design.Stroke{}
}
