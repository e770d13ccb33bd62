package design

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
)

// ViewDocument is the ordered element list of one view, in paint order.
type ViewDocument struct {
	View     enums.View `json:"view"`
	Elements []Element  `json:"elements"`
}

// NewViewDocument returns an empty document for view.
func NewViewDocument(view enums.View) ViewDocument {
	return ViewDocument{View: view, Elements: []Element{}}
}

// IsEmpty reports whether the view carries no elements.
func (d ViewDocument) IsEmpty() bool {
	return len(d.Elements) == 0
}

// Clone deep-copies the document.
func (d ViewDocument) Clone() ViewDocument {
	out := ViewDocument{View: d.View, Elements: make([]Element, len(d.Elements))}
	for i, el := range d.Elements {
		out.Elements[i] = el.Clone()
	}
	return out
}

// Renumber rewrites z to the dense sequence 0..n-1 following slice order.
func (d *ViewDocument) Renumber() {
	for i := range d.Elements {
		d.Elements[i].Z = i
	}
}

// Marshal serializes the document into its snapshot form.
func (d ViewDocument) Marshal() ([]byte, error) {
	if !d.View.IsValid() {
		return nil, fmt.Errorf("serializing view document: invalid view %q", d.View)
	}
	if d.Elements == nil {
		d.Elements = []Element{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("serializing view %s: %w", d.View, err)
	}
	return data, nil
}

// UnmarshalViewDocument restores a snapshot, sorting by z and checking every
// element so a corrupt snapshot is rejected as a whole.
func UnmarshalViewDocument(data []byte) (ViewDocument, error) {
	var doc ViewDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ViewDocument{}, fmt.Errorf("restoring view document: %w", err)
	}
	if !doc.View.IsValid() {
		return ViewDocument{}, fmt.Errorf("restoring view document: invalid view %q", doc.View)
	}
	seen := make(map[string]struct{}, len(doc.Elements))
	for _, el := range doc.Elements {
		if err := el.Validate(); err != nil {
			return ViewDocument{}, fmt.Errorf("restoring view %s: %w", doc.View, err)
		}
		if _, dup := seen[el.ID]; dup {
			return ViewDocument{}, fmt.Errorf("restoring view %s: duplicate element id %s", doc.View, el.ID)
		}
		seen[el.ID] = struct{}{}
	}
	sort.SliceStable(doc.Elements, func(i, j int) bool {
		return doc.Elements[i].Z < doc.Elements[j].Z
	})
	if doc.Elements == nil {
		doc.Elements = []Element{}
	}
	doc.Renumber()
	return doc, nil
}

// Document is the four-view design plus the active view pointer. Each slot
// holds the serialized snapshot of its view.
type Document struct {
	Active    enums.View
	snapshots map[enums.View]json.RawMessage
	dropped   []enums.View
}

// NewDocument returns an empty design with front active.
func NewDocument() *Document {
	return &Document{
		Active:    enums.ViewFront,
		snapshots: make(map[enums.View]json.RawMessage, len(enums.Views)),
	}
}

// Clone copies the document so it can be read without the owner's lock.
func (d *Document) Clone() *Document {
	out := &Document{Active: d.Active, snapshots: make(map[enums.View]json.RawMessage, len(d.snapshots))}
	for view, raw := range d.snapshots {
		out.snapshots[view] = append(json.RawMessage(nil), raw...)
	}
	return out
}

// Snapshot returns the stored snapshot of view, if any.
func (d *Document) Snapshot(view enums.View) ([]byte, bool) {
	raw, ok := d.snapshots[view]
	if !ok || len(raw) == 0 {
		return nil, false
	}
	return append([]byte(nil), raw...), true
}

// Store replaces the snapshot of view.
func (d *Document) Store(view enums.View, snapshot []byte) {
	d.snapshots[view] = append(json.RawMessage(nil), snapshot...)
}

// Drop removes the stored snapshot of view.
func (d *Document) Drop(view enums.View) {
	delete(d.snapshots, view)
}

// View decodes the stored document of view. A missing slot yields an empty
// document.
func (d *Document) View(view enums.View) (ViewDocument, error) {
	raw, ok := d.Snapshot(view)
	if !ok {
		return NewViewDocument(view), nil
	}
	return UnmarshalViewDocument(raw)
}

// ElementCount sums the elements of every stored view.
func (d *Document) ElementCount() (int, error) {
	total := 0
	for _, view := range enums.Views {
		doc, err := d.View(view)
		if err != nil {
			return 0, err
		}
		total += len(doc.Elements)
	}
	return total, nil
}

// CustomizedViews lists views with at least one stored element, in preview
// priority order.
func (d *Document) CustomizedViews() ([]enums.View, error) {
	out := []enums.View{}
	for _, view := range enums.Views {
		doc, err := d.View(view)
		if err != nil {
			return nil, err
		}
		if !doc.IsEmpty() {
			out = append(out, view)
		}
	}
	return out, nil
}

type documentJSON struct {
	Active enums.View                      `json:"active"`
	Views  map[enums.View]json.RawMessage `json:"views"`
}

// MarshalJSON emits every view, empty ones included, so the snapshot can
// rebuild the full design.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{Active: d.Active, Views: make(map[enums.View]json.RawMessage, len(enums.Views))}
	for _, view := range enums.Views {
		if raw, ok := d.snapshots[view]; ok && len(raw) > 0 {
			out.Views[view] = raw
			continue
		}
		empty, err := NewViewDocument(view).Marshal()
		if err != nil {
			return nil, err
		}
		out.Views[view] = empty
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a document written by MarshalJSON. A view whose
// snapshot is corrupt is left empty and reported by Dropped; the other views
// are kept.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("restoring design document: %w", err)
	}
	active := in.Active
	if !active.IsValid() {
		active = enums.ViewFront
	}
	d.Active = active
	d.snapshots = make(map[enums.View]json.RawMessage, len(enums.Views))
	d.dropped = nil
	for view, raw := range in.Views {
		if !view.IsValid() {
			d.dropped = append(d.dropped, view)
			continue
		}
		doc, err := UnmarshalViewDocument(raw)
		if err != nil || doc.View != view {
			d.dropped = append(d.dropped, view)
			continue
		}
		d.snapshots[view] = raw
	}
	sort.Slice(d.dropped, func(i, j int) bool { return d.dropped[i] < d.dropped[j] })
	return nil
}

// Dropped lists the views discarded by the last UnmarshalJSON.
func (d *Document) Dropped() []enums.View {
	return d.dropped
}
