package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	FontFamilyGo     = "Go"
	FontFamilyGoMono = "Go Mono"
)

// TextMeasurer returns the unscaled extent of a text element.
type TextMeasurer interface {
	Measure(t design.TextContent) (width, height float64, err error)
}

type fontStyle struct {
	family string
	bold   bool
	italic bool
}

// FontBook holds the parsed fonts available to text elements. Faces are built
// per call so a FontBook can serve concurrent renders.
type FontBook struct {
	fonts map[fontStyle]*opentype.Font
}

// NewFontBook parses the bundled Go font families.
func NewFontBook() (*FontBook, error) {
	sources := map[fontStyle][]byte{
		{FontFamilyGo, false, false}:     goregular.TTF,
		{FontFamilyGo, true, false}:      gobold.TTF,
		{FontFamilyGo, false, true}:      goitalic.TTF,
		{FontFamilyGo, true, true}:       gobolditalic.TTF,
		{FontFamilyGoMono, false, false}: gomono.TTF,
		{FontFamilyGoMono, true, false}:  gomonobold.TTF,
		{FontFamilyGoMono, false, true}:  gomonoitalic.TTF,
		{FontFamilyGoMono, true, true}:   gomonobolditalic.TTF,
	}
	book := &FontBook{fonts: make(map[fontStyle]*opentype.Font, len(sources))}
	for style, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", style.family, err)
		}
		book.fonts[style] = f
	}
	return book, nil
}

// Families lists the supported font family names.
func (b *FontBook) Families() []string {
	return []string{FontFamilyGo, FontFamilyGoMono}
}

func (b *FontBook) face(t design.TextContent) (font.Face, error) {
	if t.Size <= 0 {
		return nil, fmt.Errorf("font size must be positive")
	}
	family := t.FontFamily
	if family != FontFamilyGoMono {
		family = FontFamilyGo
	}
	f := b.fonts[fontStyle{family: family, bold: t.Bold, italic: t.Italic}]
	return opentype.NewFace(f, &opentype.FaceOptions{Size: t.Size, DPI: 72, Hinting: font.HintingNone})
}

// Measure implements TextMeasurer. Lines are split on newlines; the extent is
// the widest line by the summed line heights.
func (b *FontBook) Measure(t design.TextContent) (float64, float64, error) {
	face, err := b.face(t)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()

	lines := strings.Split(t.Content, "\n")
	widest := fixed.Int26_6(0)
	for _, line := range lines {
		if adv := font.MeasureString(face, line); adv > widest {
			widest = adv
		}
	}
	lineHeight := face.Metrics().Height
	return fixedToFloat(widest), fixedToFloat(lineHeight) * float64(len(lines)), nil
}

// Rasterize draws t at its natural size onto a transparent bitmap.
func (b *FontBook) Rasterize(t design.TextContent) (*image.RGBA, error) {
	w, h, err := b.Measure(t)
	if err != nil {
		return nil, err
	}
	face, err := b.face(t)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	fill := color.RGBA{A: 0xff}
	if strings.TrimSpace(t.Fill) != "" {
		if fill, err = design.ParseHexColor(t.Fill); err != nil {
			return nil, err
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w))+1, int(math.Ceil(h))+1))
	metrics := face.Metrics()
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(fill), Face: face}
	for i, line := range strings.Split(t.Content, "\n") {
		baseline := metrics.Ascent + metrics.Height.Mul(fixed.I(i))
		drawer.Dot = fixed.Point26_6{X: 0, Y: baseline}
		drawer.DrawString(line)

		if t.Strikethrough {
			adv := font.MeasureString(face, line)
			thickness := int(math.Max(1, math.Round(t.Size/15)))
			y := (baseline - metrics.XHeight/2).Round()
			strike := image.Rect(0, y-thickness/2, adv.Ceil(), y-thickness/2+thickness)
			draw.Draw(img, strike, image.NewUniform(fill), image.Point{}, draw.Over)
		}
	}
	return img, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
