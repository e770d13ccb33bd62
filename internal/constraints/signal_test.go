package constraints

import (
	"image/color"
	"testing"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/stretchr/testify/assert"
)

type styledStub struct {
	stroke design.Stroke
}

func (s *styledStub) Stroke() design.Stroke { return s.stroke }
func (s *styledStub) SetStroke(st design.Stroke) { s.stroke = st }

func TestSignalerRestoresOriginalStroke(t *testing.T) {
	original := design.Stroke{Color: color.RGBA{B: 0xff, A: 0xff}, Width: 1}
	target := &styledStub{stroke: original}
	s := NewSignaler()

	for i := 0; i < 3; i++ {
		s.Apply("a", target, Violation{Violating: true, Reason: ReasonOutsideZones})
		s.Apply("a", target, Violation{Violating: true, Reason: ReasonOutsideZones})
		assert.True(t, target.stroke.Equal(ViolationStroke))
		assert.True(t, s.Flagged("a"))

		s.Apply("a", target, Violation{})
		assert.True(t, target.stroke.Equal(original), "cycle %d lost the original stroke", i)
		assert.False(t, s.Flagged("a"))
	}
}

func TestSignalerLeavesCompliantElementsAlone(t *testing.T) {
	original := design.Stroke{Width: 2}
	target := &styledStub{stroke: original}
	s := NewSignaler()

	s.Apply("a", target, Violation{})
	assert.True(t, target.stroke.Equal(original))

	s.Apply("a", target, Violation{Violating: true})
	s.Forget("a")
	assert.False(t, s.Flagged("a"))
}
