package design

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Stroke is the outline painted around an element on the live canvas.
type Stroke struct {
	Color color.RGBA `json:"-"`
	Width float64    `json:"width"`
	Dash  []float64  `json:"dash,omitempty"`
}

// IsZero reports whether the stroke paints nothing.
func (s Stroke) IsZero() bool {
	return s.Width <= 0
}

// Equal compares two strokes field by field.
func (s Stroke) Equal(o Stroke) bool {
	if s.Color != o.Color || s.Width != o.Width || len(s.Dash) != len(o.Dash) {
		return false
	}
	for i := range s.Dash {
		if s.Dash[i] != o.Dash[i] {
			return false
		}
	}
	return true
}

// ParseHexColor reads #rgb or #rrggbb into an opaque color.
func ParseHexColor(value string) (color.RGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", value)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}
