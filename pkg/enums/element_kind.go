package enums

import "fmt"

// ElementKind discriminates the design element variants.
type ElementKind string

const (
	ElementKindImage ElementKind = "image"
	ElementKindText  ElementKind = "text"
)

var validElementKinds = []ElementKind{
	ElementKindImage,
	ElementKindText,
}

// String implements fmt.Stringer.
func (k ElementKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ElementKind.
func (k ElementKind) IsValid() bool {
	for _, candidate := range validElementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseElementKind converts raw input into an ElementKind.
func ParseElementKind(value string) (ElementKind, error) {
	for _, candidate := range validElementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid element kind %q", value)
}
