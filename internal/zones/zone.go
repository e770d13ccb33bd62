package zones

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
)

// Zone is a printable rectangle normalized to the canvas, with optional
// element size bounds in pixels.
type Zone struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	MinSize *float64 `json:"minSize,omitempty"`
	MaxSize *float64 `json:"maxSize,omitempty"`
}

// Rect projects the zone onto a canvas of the given size.
func (z Zone) Rect(canvasWidth, canvasHeight float64) design.Rect {
	return design.Rect{
		MinX: z.X * canvasWidth,
		MinY: z.Y * canvasHeight,
		MaxX: (z.X + z.Width) * canvasWidth,
		MaxY: (z.Y + z.Height) * canvasHeight,
	}
}

func (z Zone) validate() error {
	for name, v := range map[string]float64{"x": z.X, "y": z.Y, "width": z.Width, "height": z.Height} {
		if v < 0 || v > 1 {
			return fmt.Errorf("zone %s: %s %v outside [0,1]", z.ID, name, v)
		}
	}
	if z.Width <= 0 || z.Height <= 0 {
		return fmt.Errorf("zone %s: width and height must be positive", z.ID)
	}
	if z.X+z.Width > 1+design.Epsilon || z.Y+z.Height > 1+design.Epsilon {
		return fmt.Errorf("zone %s: rectangle overflows the canvas", z.ID)
	}
	if z.MinSize != nil && *z.MinSize < 0 {
		return fmt.Errorf("zone %s: negative minSize", z.ID)
	}
	if z.MinSize != nil && z.MaxSize != nil && *z.MaxSize < *z.MinSize {
		return fmt.Errorf("zone %s: maxSize below minSize", z.ID)
	}
	return nil
}

// Document is the per-view zone payload supplied by the catalog.
type Document struct {
	Front []Zone `json:"front"`
	Back  []Zone `json:"back"`
	Left  []Zone `json:"left"`
	Right []Zone `json:"right"`
}

// ForView returns the zones declared for view.
func (d Document) ForView(view enums.View) []Zone {
	switch view {
	case enums.ViewFront:
		return d.Front
	case enums.ViewBack:
		return d.Back
	case enums.ViewLeft:
		return d.Left
	case enums.ViewRight:
		return d.Right
	}
	return nil
}

// ParseDocument decodes and validates a zone document. An empty payload is a
// valid document with no zones.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(raw))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid zone document")
	}
	for _, view := range enums.Views {
		seen := map[string]struct{}{}
		for i, zone := range doc.ForView(view) {
			if strings.TrimSpace(zone.ID) == "" {
				return Document{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s zone %d: id is required", view, i))
			}
			if _, dup := seen[zone.ID]; dup {
				return Document{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s zone %s: duplicate id", view, zone.ID))
			}
			seen[zone.ID] = struct{}{}
			if err := zone.validate(); err != nil {
				return Document{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s zone", view))
			}
		}
	}
	return doc, nil
}
