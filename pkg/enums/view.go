package enums

import (
	"fmt"
	"strings"
)

// View is one garment orientation with its own independent design surface.
type View string

const (
	ViewFront View = "front"
	ViewBack  View = "back"
	ViewLeft  View = "left"
	ViewRight View = "right"
)

// Views lists every view in preview priority order.
var Views = []View{
	ViewFront,
	ViewBack,
	ViewLeft,
	ViewRight,
}

// String implements fmt.Stringer.
func (v View) String() string {
	return string(v)
}

// Label returns the human readable name used in export file names.
func (v View) Label() string {
	if v == "" {
		return ""
	}
	return strings.ToUpper(string(v[:1])) + string(v[1:])
}

// IsValid reports whether the value is a known View.
func (v View) IsValid() bool {
	for _, candidate := range Views {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseView converts raw input into a View.
func ParseView(value string) (View, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range Views {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid view %q", value)
}
