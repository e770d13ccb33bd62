package canvas

import (
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
)

// Press picks the topmost design element under (x, y), selects it and starts
// a gesture. Pressing empty canvas clears the selection.
func (s *Surface) Press(x, y float64) (string, bool) {
	for i := len(s.designs) - 1; i >= 0; i-- {
		h := s.handles[s.designs[i]]
		b := h.bounds()
		if x < b.MinX || x > b.MaxX || y < b.MinY || y > b.MaxY {
			continue
		}
		s.selected = h.id
		s.gesture = &pointerGesture{
			id:      h.id,
			offsetX: x - h.element.Transform.CenterX,
			offsetY: y - h.element.Transform.CenterY,
			gate:    s.engine.BeginGesture(),
		}
		s.broadcast()
		return h.id, true
	}
	s.ClearSelection()
	return "", false
}

// Move drags the pressed element. It reports the live check and whether the
// move was judged at all.
func (s *Surface) Move(x, y float64) (constraints.Violation, bool, error) {
	h, err := s.dragged()
	if err != nil {
		return constraints.Violation{}, false, err
	}
	s.follow(h, x, y)
	if !s.gesture.gate.Move() {
		return h.violation, false, nil
	}
	v := s.evaluate(h)
	s.edited()
	return v, true, nil
}

// Release ends the gesture and enforces the constraints definitively.
func (s *Surface) Release(x, y float64) (constraints.Violation, error) {
	h, err := s.dragged()
	if err != nil {
		return constraints.Violation{}, err
	}
	s.follow(h, x, y)
	s.gesture = nil
	v := s.complete(h)
	s.edited()
	return v, nil
}

// Dragging reports whether a gesture is in progress.
func (s *Surface) Dragging() bool {
	return s.gesture != nil
}

func (s *Surface) dragged() (*Handle, error) {
	if s.gesture == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no gesture in progress")
	}
	h, ok := s.handles[s.gesture.id]
	if !ok {
		s.gesture = nil
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dragged element no longer exists")
	}
	return h, nil
}

func (s *Surface) follow(h *Handle, x, y float64) {
	h.element.Transform.CenterX = x - s.gesture.offsetX
	h.element.Transform.CenterY = y - s.gesture.offsetY
}
