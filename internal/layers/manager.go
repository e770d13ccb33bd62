// Package layers reorders the paint stack of a view.
package layers

import (
	"fmt"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
)

// Stack is the paint-ordered collection being reordered. Reorder is expected
// to renumber z densely and trigger a re-render.
type Stack interface {
	PaintOrder() []string
	Reorder(ids []string) error
}

// Manager applies layer moves to a Stack.
type Manager struct {
	stack Stack
}

func NewManager(stack Stack) *Manager {
	return &Manager{stack: stack}
}

// Apply dispatches a named move. It reports whether the order changed.
func (m *Manager) Apply(id string, move enums.LayerMove) (bool, error) {
	switch move {
	case enums.LayerMoveFront:
		return m.BringToFront(id)
	case enums.LayerMoveBack:
		return m.SendToBack(id)
	case enums.LayerMoveForward:
		return m.MoveForward(id)
	case enums.LayerMoveBackward:
		return m.MoveBackward(id)
	}
	return false, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown layer move %q", move))
}

// BringToFront moves id to the top of the paint order.
func (m *Manager) BringToFront(id string) (bool, error) {
	return m.move(id, func(order []string, i int) int { return len(order) - 1 })
}

// SendToBack moves id to the bottom of the paint order.
func (m *Manager) SendToBack(id string) (bool, error) {
	return m.move(id, func([]string, int) int { return 0 })
}

// MoveForward swaps id with the element directly above it.
func (m *Manager) MoveForward(id string) (bool, error) {
	return m.move(id, func(order []string, i int) int {
		if i == len(order)-1 {
			return i
		}
		return i + 1
	})
}

// MoveBackward swaps id with the element directly below it.
func (m *Manager) MoveBackward(id string) (bool, error) {
	return m.move(id, func(order []string, i int) int {
		if i == 0 {
			return i
		}
		return i - 1
	})
}

// List returns element ids top to bottom, the order a layer panel shows.
func (m *Manager) List() []string {
	order := m.stack.PaintOrder()
	out := make([]string, len(order))
	for i, id := range order {
		out[len(order)-1-i] = id
	}
	return out
}

func (m *Manager) move(id string, target func(order []string, i int) int) (bool, error) {
	order := m.stack.PaintOrder()
	from := indexOf(order, id)
	if from < 0 {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("element %s not found", id))
	}
	to := target(order, from)
	if to == from {
		return false, nil
	}
	next := make([]string, 0, len(order))
	next = append(next, order[:from]...)
	next = append(next, order[from+1:]...)
	next = append(next[:to], append([]string{id}, next[to:]...)...)
	if err := m.stack.Reorder(next); err != nil {
		return false, err
	}
	return true, nil
}

func indexOf(order []string, id string) int {
	for i, candidate := range order {
		if candidate == id {
			return i
		}
	}
	return -1
}
