package canvas

import "github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"

// Formatting is the style state mirrored into the formatting panel.
type Formatting struct {
	ElementID     string  `json:"elementId,omitempty"`
	FontFamily    string  `json:"fontFamily"`
	Bold          bool    `json:"bold"`
	Italic        bool    `json:"italic"`
	Strikethrough bool    `json:"strikethrough"`
	Fill          string  `json:"fill"`
	Size          float64 `json:"size"`
}

// FormattingListener receives the formatting of the current selection, or the
// defaults when nothing is selected.
type FormattingListener interface {
	FormattingChanged(Formatting)
}

// FormattingFunc adapts a function to FormattingListener.
type FormattingFunc func(Formatting)

func (f FormattingFunc) FormattingChanged(fm Formatting) { f(fm) }

// DefaultFormatting is the panel state with nothing selected.
func DefaultFormatting(size float64, fill string) Formatting {
	return Formatting{FontFamily: FontFamilyGo, Fill: fill, Size: size}
}

func formattingOf(el design.Element, defaults Formatting) Formatting {
	if el.Text == nil {
		out := defaults
		out.ElementID = el.ID
		return out
	}
	return Formatting{
		ElementID:     el.ID,
		FontFamily:    el.Text.FontFamily,
		Bold:          el.Text.Bold,
		Italic:        el.Text.Italic,
		Strikethrough: el.Text.Strikethrough,
		Fill:          el.Text.Fill,
		Size:          el.Text.Size,
	}
}

// TextPatch carries optional text edits; nil fields are left unchanged.
type TextPatch struct {
	Content       *string
	FontFamily    *string
	Bold          *bool
	Italic        *bool
	Strikethrough *bool
	Fill          *string
	Size          *float64
}

func (p TextPatch) apply(t *design.TextContent) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.Bold != nil {
		t.Bold = *p.Bold
	}
	if p.Italic != nil {
		t.Italic = *p.Italic
	}
	if p.Strikethrough != nil {
		t.Strikethrough = *p.Strikethrough
	}
	if p.Fill != nil {
		t.Fill = *p.Fill
	}
	if p.Size != nil {
		t.Size = *p.Size
	}
}
