package zones

import "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"

// Registry answers which zones constrain a view. It is read-only once built.
type Registry struct {
	byView map[enums.View][]Zone
}

// NewRegistry copies the zones of doc into a lookup table.
func NewRegistry(doc Document) *Registry {
	r := &Registry{byView: make(map[enums.View][]Zone, len(enums.Views))}
	for _, view := range enums.Views {
		zones := doc.ForView(view)
		if len(zones) == 0 {
			continue
		}
		r.byView[view] = append([]Zone(nil), zones...)
	}
	return r
}

// ZonesFor returns the zones of view. An empty result means the view is
// unconstrained apart from the absolute size cap.
func (r *Registry) ZonesFor(view enums.View) []Zone {
	if r == nil {
		return nil
	}
	return append([]Zone(nil), r.byView[view]...)
}
