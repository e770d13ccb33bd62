package session

import (
	"fmt"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/google/uuid"
)

// ElementView is an element with its current advisory check.
type ElementView struct {
	Element   design.Element        `json:"element"`
	Violation constraints.Violation `json:"violation"`
}

// GuideView is a zone outline drawn over the active view.
type GuideView struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Bounds design.Rect `json:"bounds"`
}

// Status is the externally visible state of a session.
type Status struct {
	ID           uuid.UUID          `json:"id"`
	ProductID    uuid.UUID          `json:"productId"`
	VariantID    uuid.UUID          `json:"variantId"`
	State        enums.SessionState `json:"state"`
	ActiveView   enums.View         `json:"activeView"`
	Background   string             `json:"background,omitempty"`
	Elements     []ElementView      `json:"elements"`
	Guides       []GuideView        `json:"guides"`
	Selected     string             `json:"selected,omitempty"`
	Formatting   canvas.Formatting  `json:"formatting"`
	Acknowledged bool               `json:"acknowledged"`
	Pending      bool               `json:"pending"`
	Sizes        []string           `json:"sizes"`
	SubmissionID *uuid.UUID         `json:"submissionId,omitempty"`
}

// Status reports the live state of the active view.
func (s *DesignSession) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *DesignSession) status() Status {
	out := Status{
		ID:           s.id,
		ProductID:    s.cfg.ProductID,
		VariantID:    s.cfg.VariantID,
		State:        s.state,
		ActiveView:   s.store.Active(),
		Background:   s.store.Background(),
		Elements:     []ElementView{},
		Guides:       []GuideView{},
		Selected:     s.surface.Selected(),
		Formatting:   s.formatting,
		Acknowledged: s.gate.Acknowledged(),
		Pending:      s.store.Pending(),
		Sizes:        append([]string(nil), s.cfg.Sizes...),
	}
	for _, id := range s.surface.PaintOrder() {
		h, _ := s.surface.Handle(id)
		out.Elements = append(out.Elements, ElementView{Element: h.Element(), Violation: h.Violation()})
	}
	for _, h := range s.surface.Overlays() {
		if h.Purpose() == enums.LayerPurposeGuide {
			out.Guides = append(out.Guides, GuideView{ID: h.ID(), Label: h.Label(), Bounds: h.Area()})
		}
	}
	if s.submission != nil {
		id := s.submission.ID
		out.SubmissionID = &id
	}
	return out
}

// Activate switches the live canvas to view. The first activation starts
// designing; activating the current view changes nothing.
func (s *DesignSession) Activate(view enums.View) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !view.IsValid() {
		return Status{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid view %q", view))
	}
	if s.state == enums.SessionStateEmpty {
		if err := s.transition(enums.SessionStateDesigning); err != nil {
			return Status{}, err
		}
	} else if err := s.requireDesigning(); err != nil {
		return Status{}, err
	}
	if err := s.store.Activate(view); err != nil {
		return Status{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "activating view")
	}
	s.touch()
	return s.status(), nil
}

// Acknowledge records the usage rights confirmation required before the first
// upload.
func (s *DesignSession) Acknowledge() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(enums.SessionStateEmpty, enums.SessionStateDesigning); err != nil {
		return err
	}
	s.gate.Acknowledge()
	s.touch()
	s.autosave()
	return nil
}

// TextInput describes a new text element. Zero formatting fields fall back
// to the panel defaults.
type TextInput struct {
	Content       string
	FontFamily    string
	Bold          bool
	Italic        bool
	Strikethrough bool
	Fill          string
	Size          float64
}

// AddText places a text element at the center of the active view and
// selects it.
func (s *DesignSession) AddText(in TextInput) (ElementView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return ElementView{}, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return ElementView{}, pkgerrors.New(pkgerrors.CodeValidation, "text content is required")
	}
	defaults := s.surface.Defaults()
	text := &design.TextContent{
		Content:       in.Content,
		FontFamily:    in.FontFamily,
		Bold:          in.Bold,
		Italic:        in.Italic,
		Strikethrough: in.Strikethrough,
		Fill:          in.Fill,
		Size:          in.Size,
	}
	if text.FontFamily == "" {
		text.FontFamily = defaults.FontFamily
	}
	if text.Fill == "" {
		text.Fill = defaults.Fill
	}
	if text.Size <= 0 {
		text.Size = defaults.Size
	}
	if _, err := design.ParseHexColor(text.Fill); err != nil {
		return ElementView{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fill color")
	}

	el := design.Element{
		ID:        uuid.NewString(),
		Kind:      enums.ElementKindText,
		Transform: design.IdentityTransform(float64(s.surface.Width())/2, float64(s.surface.Height())/2),
		Width:     1,
		Height:    1,
		Text:      text,
	}
	h, err := s.surface.Add(el)
	if err != nil {
		return ElementView{}, err
	}
	if err := s.surface.Select(h.ID()); err != nil {
		return ElementView{}, err
	}
	s.touch()
	return ElementView{Element: h.Element(), Violation: h.Violation()}, nil
}

// UpdateText edits the content or formatting of a text element.
func (s *DesignSession) UpdateText(elementID string, patch canvas.TextPatch) (ElementView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return ElementView{}, err
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return ElementView{}, pkgerrors.New(pkgerrors.CodeValidation, "text content is required")
	}
	v, err := s.surface.UpdateText(elementID, patch)
	if err != nil {
		return ElementView{}, err
	}
	s.flagged(v)
	s.touch()
	el, _ := s.surface.Element(elementID)
	return ElementView{Element: el, Violation: v}, nil
}

// Select makes elementID the current selection.
func (s *DesignSession) Select(elementID string) (canvas.Formatting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return canvas.Formatting{}, err
	}
	if err := s.surface.Select(elementID); err != nil {
		return canvas.Formatting{}, err
	}
	s.touch()
	return s.formatting, nil
}

// ClearSelection deselects and resets the formatting panel to defaults.
func (s *DesignSession) ClearSelection() (canvas.Formatting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return canvas.Formatting{}, err
	}
	s.surface.ClearSelection()
	s.touch()
	return s.formatting, nil
}

// GestureInput is one pointer event in canvas coordinates.
type GestureInput struct {
	Phase enums.GesturePhase
	X     float64
	Y     float64
}

// GestureResult reports what a pointer event did.
type GestureResult struct {
	ElementID string                `json:"elementId,omitempty"`
	Hit       bool                  `json:"hit"`
	Judged    bool                  `json:"judged"`
	Violation constraints.Violation `json:"violation"`
	Element   *design.Element       `json:"element,omitempty"`
}

// Gesture applies a press, move or release pointer event.
func (s *DesignSession) Gesture(in GestureInput) (GestureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return GestureResult{}, err
	}
	s.touch()

	var out GestureResult
	switch in.Phase {
	case enums.GesturePress:
		id, hit := s.surface.Press(in.X, in.Y)
		out = GestureResult{ElementID: id, Hit: hit}
	case enums.GestureMove:
		v, judged, err := s.surface.Move(in.X, in.Y)
		if err != nil {
			return GestureResult{}, err
		}
		out = GestureResult{ElementID: s.surface.Selected(), Hit: true, Judged: judged, Violation: v}
	case enums.GestureRelease:
		v, err := s.surface.Release(in.X, in.Y)
		if err != nil {
			return GestureResult{}, err
		}
		s.flagged(v)
		out = GestureResult{ElementID: s.surface.Selected(), Hit: true, Judged: true, Violation: v}
	default:
		return GestureResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gesture phase %q", in.Phase))
	}
	if out.ElementID != "" {
		if el, ok := s.surface.Element(out.ElementID); ok {
			out.Element = &el
		}
	}
	return out, nil
}

// TransformInput is a discrete transform. Nudge offsets count arrow steps.
type TransformInput struct {
	Action enums.TransformAction
	DX     float64
	DY     float64
}

// Transform selects elementID and applies a scale, flip or nudge to it.
func (s *DesignSession) Transform(elementID string, in TransformInput) (ElementView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return ElementView{}, err
	}
	if err := s.surface.Select(elementID); err != nil {
		return ElementView{}, err
	}

	var (
		v   constraints.Violation
		err error
	)
	switch in.Action {
	case enums.TransformScaleUp:
		v, err = s.surface.ScaleSelected(true)
	case enums.TransformScaleDown:
		v, err = s.surface.ScaleSelected(false)
	case enums.TransformFlipX:
		err = s.surface.FlipSelected(true)
	case enums.TransformFlipY:
		err = s.surface.FlipSelected(false)
	case enums.TransformNudge:
		if in.DX == 0 && in.DY == 0 {
			return ElementView{}, pkgerrors.New(pkgerrors.CodeValidation, "nudge needs a direction")
		}
		step := s.deps.Canvas.NudgeStep
		v, err = s.surface.NudgeSelected(in.DX*step, in.DY*step)
	default:
		return ElementView{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transform %q", in.Action))
	}
	if err != nil {
		return ElementView{}, err
	}
	s.flagged(v)
	s.touch()
	h, _ := s.surface.Handle(elementID)
	return ElementView{Element: h.Element(), Violation: h.Violation()}, nil
}

// LayerEntry is one row of the layer panel.
type LayerEntry struct {
	ID        string            `json:"id"`
	Kind      enums.ElementKind `json:"kind"`
	Z         int               `json:"z"`
	Label     string            `json:"label"`
	Violating bool              `json:"violating"`
}

// MoveLayer reorders elementID in the paint stack. It reports whether the
// order changed and returns the panel top to bottom.
func (s *DesignSession) MoveLayer(elementID string, move enums.LayerMove) (bool, []LayerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return false, nil, err
	}
	changed, err := s.layers.Apply(elementID, move)
	if err != nil {
		return false, nil, err
	}
	s.touch()
	return changed, s.layerEntries(), nil
}

// Layers lists the active view's elements top to bottom.
func (s *DesignSession) Layers() []LayerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layerEntries()
}

func (s *DesignSession) layerEntries() []LayerEntry {
	ids := s.layers.List()
	out := make([]LayerEntry, 0, len(ids))
	for _, id := range ids {
		h, ok := s.surface.Handle(id)
		if !ok {
			continue
		}
		el := h.Element()
		out = append(out, LayerEntry{
			ID:        id,
			Kind:      el.Kind,
			Z:         el.Z,
			Label:     layerLabel(el),
			Violating: h.Violation().Violating,
		})
	}
	return out
}

func layerLabel(el design.Element) string {
	if el.Text != nil {
		label := strings.SplitN(el.Text.Content, "\n", 2)[0]
		if runes := []rune(label); len(runes) > 24 {
			label = string(runes[:24]) + "…"
		}
		return label
	}
	return "Image"
}

// Delete removes elementID from the active view.
func (s *DesignSession) Delete(elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return err
	}
	if err := s.surface.Remove(elementID); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *DesignSession) flagged(v constraints.Violation) {
	if v.Violating && s.deps.Recorder != nil {
		s.deps.Recorder.ViolationFlagged(s.store.Active())
	}
}
