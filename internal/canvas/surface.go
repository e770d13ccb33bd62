package canvas

import (
	"fmt"
	"math"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
)

// Options configures a Surface.
type Options struct {
	Width     int
	Height    int
	View      enums.View
	Engine    *constraints.Engine
	Measurer  TextMeasurer
	Listener  FormattingListener
	Defaults  Formatting
	ScaleStep float64
	// OnEdit is called after every committed change to design content.
	OnEdit func()
}

// Surface is the live scene of one view. It is not safe for concurrent use;
// the owning session serializes access.
type Surface struct {
	width     float64
	height    float64
	view      enums.View
	engine    *constraints.Engine
	signaler  *constraints.Signaler
	measurer  TextMeasurer
	listener  FormattingListener
	defaults  Formatting
	scaleStep float64
	onEdit    func()

	handles  map[string]*Handle
	designs  []string
	overlays []string
	selected string
	gesture  *pointerGesture
}

type pointerGesture struct {
	id      string
	offsetX float64
	offsetY float64
	gate    *constraints.Gesture
}

func NewSurface(opts Options) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("surface size must be positive")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("constraint engine required")
	}
	if !opts.View.IsValid() {
		opts.View = enums.ViewFront
	}
	if opts.ScaleStep <= 1 {
		opts.ScaleStep = 1.1
	}
	if opts.Defaults.Size <= 0 {
		opts.Defaults = DefaultFormatting(32, "#000000")
	}
	return &Surface{
		width:     float64(opts.Width),
		height:    float64(opts.Height),
		view:      opts.View,
		engine:    opts.Engine,
		signaler:  constraints.NewSignaler(),
		measurer:  opts.Measurer,
		listener:  opts.Listener,
		defaults:  opts.Defaults,
		scaleStep: opts.ScaleStep,
		onEdit:    opts.OnEdit,
		handles:   map[string]*Handle{},
	}, nil
}

func (s *Surface) Width() int { return int(s.width) }
func (s *Surface) Height() int { return int(s.height) }
func (s *Surface) View() enums.View { return s.view }
func (s *Surface) Len() int { return len(s.designs) }
func (s *Surface) Selected() string { return s.selected }
func (s *Surface) Defaults() Formatting { return s.defaults }

// SetView retargets the surface so constraints use the zones of view.
func (s *Surface) SetView(view enums.View) {
	s.view = view
}

// Handle returns the handle registered under id.
func (s *Surface) Handle(id string) (*Handle, bool) {
	h, ok := s.handles[id]
	return h, ok
}

// Element returns a copy of the design element id.
func (s *Surface) Element(id string) (design.Element, bool) {
	h, ok := s.handles[id]
	if !ok || h.purpose != enums.LayerPurposeDesign {
		return design.Element{}, false
	}
	return h.Element(), true
}

// Add places el on top of the paint order and evaluates it.
func (s *Surface) Add(el design.Element) (*Handle, error) {
	if err := el.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid element")
	}
	if _, exists := s.handles[el.ID]; exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("element %s already on canvas", el.ID))
	}
	if el.Kind == enums.ElementKindText {
		if err := s.measure(&el); err != nil {
			return nil, err
		}
	}
	h := s.insert(el)
	s.evaluate(h)
	s.edited()
	return h, nil
}

// Remove deletes a design element.
func (s *Surface) Remove(id string) error {
	h, ok := s.handles[id]
	if !ok || h.purpose != enums.LayerPurposeDesign {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("element %s not found", id))
	}
	s.detach(id)
	if s.selected == id {
		s.selected = ""
		s.broadcast()
	}
	s.edited()
	return nil
}

// Clear removes every design handle and the current selection. Overlays stay.
func (s *Surface) Clear() {
	for _, id := range s.designs {
		delete(s.handles, id)
	}
	s.designs = nil
	s.gesture = nil
	s.signaler.Reset()
	if s.selected != "" {
		s.selected = ""
		s.broadcast()
	}
}

// Load places the elements of doc in order. Loading is not an edit.
func (s *Surface) Load(doc design.ViewDocument) error {
	for _, el := range doc.Elements {
		if err := el.Validate(); err != nil {
			return err
		}
		if _, exists := s.handles[el.ID]; exists {
			return fmt.Errorf("duplicate element %s", el.ID)
		}
		h := s.insert(el.Clone())
		s.evaluate(h)
	}
	return nil
}

// Snapshot returns the design elements in paint order with dense z.
func (s *Surface) Snapshot() design.ViewDocument {
	doc := design.NewViewDocument(s.view)
	for _, id := range s.designs {
		doc.Elements = append(doc.Elements, s.handles[id].Element())
	}
	doc.Renumber()
	return doc
}

// ShowGuides replaces the zone guide overlays. Guides never reach exports.
func (s *Surface) ShowGuides(zs []zones.Zone) {
	kept := s.overlays[:0]
	for _, id := range s.overlays {
		if s.handles[id].purpose == enums.LayerPurposeGuide {
			delete(s.handles, id)
			continue
		}
		kept = append(kept, id)
	}
	s.overlays = kept
	for _, z := range zs {
		id := "guide:" + z.ID
		s.handles[id] = &Handle{
			id:             id,
			purpose:        enums.LayerPurposeGuide,
			exportExcluded: true,
			area:           z.Rect(s.width, s.height),
			label:          z.Name,
		}
		s.overlays = append(s.overlays, id)
	}
}

// Overlays returns the non-design handles in paint order.
func (s *Surface) Overlays() []*Handle {
	out := make([]*Handle, 0, len(s.overlays))
	for _, id := range s.overlays {
		out = append(out, s.handles[id])
	}
	return out
}

// Select makes id the current selection and broadcasts its formatting.
func (s *Surface) Select(id string) error {
	if _, ok := s.Element(id); !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("element %s not found", id))
	}
	s.selected = id
	s.broadcast()
	return nil
}

// ClearSelection drops the selection and resets the formatting panel.
func (s *Surface) ClearSelection() {
	s.selected = ""
	s.gesture = nil
	s.broadcast()
}

// Formatting returns the panel state for the current selection.
func (s *Surface) Formatting() Formatting {
	if s.selected == "" {
		return s.defaults
	}
	return formattingOf(s.handles[s.selected].element, s.defaults)
}

// ScaleSelected multiplies the selection's scale by the step, or divides when
// up is false. The result is validated like a completed gesture.
func (s *Surface) ScaleSelected(up bool) (constraints.Violation, error) {
	h, err := s.selection()
	if err != nil {
		return constraints.Violation{}, err
	}
	factor := s.scaleStep
	if !up {
		factor = 2 - s.scaleStep
	}
	h.element.Transform.ScaleX *= factor
	h.element.Transform.ScaleY *= factor
	v := s.complete(h)
	s.edited()
	return v, nil
}

// FlipSelected toggles a mirror flag without moving the element.
func (s *Surface) FlipSelected(horizontal bool) error {
	h, err := s.selection()
	if err != nil {
		return err
	}
	if horizontal {
		h.element.Transform.FlipX = !h.element.Transform.FlipX
	} else {
		h.element.Transform.FlipY = !h.element.Transform.FlipY
	}
	s.edited()
	return nil
}

// NudgeSelected moves the selection by (dx, dy) and validates it.
func (s *Surface) NudgeSelected(dx, dy float64) (constraints.Violation, error) {
	h, err := s.selection()
	if err != nil {
		return constraints.Violation{}, err
	}
	h.element.Transform.CenterX += dx
	h.element.Transform.CenterY += dy
	v := s.complete(h)
	s.edited()
	return v, nil
}

// DeleteSelected removes the selected element and returns its id.
func (s *Surface) DeleteSelected() (string, error) {
	h, err := s.selection()
	if err != nil {
		return "", err
	}
	id := h.id
	return id, s.Remove(id)
}

// UpdateText edits a text element and re-measures it.
func (s *Surface) UpdateText(id string, patch TextPatch) (constraints.Violation, error) {
	h, ok := s.handles[id]
	if !ok || h.purpose != enums.LayerPurposeDesign {
		return constraints.Violation{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("element %s not found", id))
	}
	if h.element.Text == nil {
		return constraints.Violation{}, pkgerrors.New(pkgerrors.CodeValidation, "element is not a text element")
	}
	next := h.element.Clone()
	patch.apply(next.Text)
	if next.Text.Size <= 0 {
		return constraints.Violation{}, pkgerrors.New(pkgerrors.CodeValidation, "font size must be positive")
	}
	if _, err := design.ParseHexColor(next.Text.Fill); err != nil {
		return constraints.Violation{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fill color")
	}
	if err := s.measure(&next); err != nil {
		return constraints.Violation{}, err
	}
	h.element = next
	v := s.complete(h)
	if s.selected == id {
		s.broadcast()
	}
	s.edited()
	return v, nil
}

// PaintOrder returns design element ids bottom to top.
func (s *Surface) PaintOrder() []string {
	return append([]string(nil), s.designs...)
}

// Reorder replaces the paint order with ids, which must be a permutation of
// the current design ids.
func (s *Surface) Reorder(ids []string) error {
	if len(ids) != len(s.designs) {
		return fmt.Errorf("reorder expects %d ids, got %d", len(s.designs), len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		h, ok := s.handles[id]
		if !ok || h.purpose != enums.LayerPurposeDesign {
			return fmt.Errorf("unknown element %s", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate element %s", id)
		}
		seen[id] = struct{}{}
	}
	s.designs = append(s.designs[:0], ids...)
	s.renumber()
	s.edited()
	return nil
}

func (s *Surface) insert(el design.Element) *Handle {
	el.Z = len(s.designs)
	h := &Handle{id: el.ID, purpose: enums.LayerPurposeDesign, element: el}
	s.handles[el.ID] = h
	s.designs = append(s.designs, el.ID)
	return h
}

func (s *Surface) detach(id string) {
	delete(s.handles, id)
	s.signaler.Forget(id)
	for i, candidate := range s.designs {
		if candidate == id {
			s.designs = append(s.designs[:i], s.designs[i+1:]...)
			break
		}
	}
	if s.gesture != nil && s.gesture.id == id {
		s.gesture = nil
	}
	s.renumber()
}

func (s *Surface) renumber() {
	for i, id := range s.designs {
		s.handles[id].element.Z = i
	}
}

func (s *Surface) selection() (*Handle, error) {
	if s.selected == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no element selected")
	}
	return s.handles[s.selected], nil
}

func (s *Surface) measure(el *design.Element) error {
	if s.measurer == nil || el.Text == nil {
		return nil
	}
	w, h, err := s.measurer.Measure(*el.Text)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "measuring text")
	}
	el.Width, el.Height = math.Max(w, 1), math.Max(h, 1)
	return nil
}

// evaluate refreshes the advisory flag without moving anything.
func (s *Surface) evaluate(h *Handle) constraints.Violation {
	h.violation = s.engine.Evaluate(s.view, h.element)
	s.signaler.Apply(h.id, h, h.violation)
	return h.violation
}

// complete runs the definitive check with auto-correction.
func (s *Surface) complete(h *Handle) constraints.Violation {
	h.violation, _ = s.engine.Correct(s.view, &h.element)
	s.signaler.Apply(h.id, h, h.violation)
	return h.violation
}

func (s *Surface) broadcast() {
	if s.listener != nil {
		s.listener.FormattingChanged(s.Formatting())
	}
}

func (s *Surface) edited() {
	if s.onEdit != nil {
		s.onEdit()
	}
}
