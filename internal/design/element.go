package design

import (
	"fmt"
	"math"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
)

// Transform is the placement of an element on its view. Rotation stays at zero
// in the current editor but is carried so snapshots remain forward compatible.
type Transform struct {
	CenterX  float64 `json:"centerX"`
	CenterY  float64 `json:"centerY"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
	FlipX    bool    `json:"flipX"`
	FlipY    bool    `json:"flipY"`
}

// IdentityTransform returns an unscaled transform centered at (cx, cy).
func IdentityTransform(cx, cy float64) Transform {
	return Transform{CenterX: cx, CenterY: cy, ScaleX: 1, ScaleY: 1}
}

// ImageContent references a decoded bitmap held in the session asset table.
type ImageContent struct {
	AssetID string `json:"assetId"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// TextContent carries the text string and its formatting.
type TextContent struct {
	Content       string  `json:"content"`
	FontFamily    string  `json:"fontFamily"`
	Bold          bool    `json:"bold"`
	Italic        bool    `json:"italic"`
	Strikethrough bool    `json:"strikethrough"`
	Fill          string  `json:"fill"`
	Size          float64 `json:"size"`
}

// Element is a placed image or text object. Exactly one of Image or Text is
// set and must match Kind.
type Element struct {
	ID        string            `json:"id"`
	Kind      enums.ElementKind `json:"kind"`
	Transform Transform         `json:"transform"`
	Z         int               `json:"z"`
	// Width and Height are the unscaled extents in canvas pixels.
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Image  *ImageContent `json:"image,omitempty"`
	Text   *TextContent  `json:"text,omitempty"`
}

// ScaledSize returns the on-canvas extent after scale.
func (e Element) ScaledSize() (float64, float64) {
	return e.Width * math.Abs(e.Transform.ScaleX), e.Height * math.Abs(e.Transform.ScaleY)
}

// Bounds returns the bounding box: center plus or minus half the scaled extent.
func (e Element) Bounds() Rect {
	w, h := e.ScaledSize()
	return RectFromCenter(e.Transform.CenterX, e.Transform.CenterY, w, h)
}

// Clone returns a deep copy.
func (e Element) Clone() Element {
	out := e
	if e.Image != nil {
		img := *e.Image
		out.Image = &img
	}
	if e.Text != nil {
		txt := *e.Text
		out.Text = &txt
	}
	return out
}

// Validate checks the variant invariants.
func (e Element) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("element id is required")
	}
	switch e.Kind {
	case enums.ElementKindImage:
		if e.Image == nil || e.Text != nil {
			return fmt.Errorf("element %s: image kind requires image content only", e.ID)
		}
		if e.Image.Width <= 0 || e.Image.Height <= 0 {
			return fmt.Errorf("element %s: image dimensions must be positive", e.ID)
		}
	case enums.ElementKindText:
		if e.Text == nil || e.Image != nil {
			return fmt.Errorf("element %s: text kind requires text content only", e.ID)
		}
	default:
		return fmt.Errorf("element %s: unknown kind %q", e.ID, e.Kind)
	}
	if e.Width < 0 || e.Height < 0 {
		return fmt.Errorf("element %s: negative extent", e.ID)
	}
	if e.Transform.ScaleX == 0 || e.Transform.ScaleY == 0 {
		return fmt.Errorf("element %s: zero scale", e.ID)
	}
	return nil
}
