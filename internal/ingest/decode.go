package ingest

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxSVGEdge bounds the raster size of vector uploads without a usable viewBox.
const maxSVGEdge = 4096

func decode(mimeType string, data []byte) (image.Image, error) {
	if mimeType == mimeSVG {
		return rasterizeSVG(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// dimensions reads the raster size from the image header. Vector uploads
// report zero; their raster is bounded by maxSVGEdge.
func dimensions(mimeType string, data []byte) (int, int, error) {
	if mimeType == mimeSVG {
		return 0, 0, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// rasterizeSVG renders a vector upload at its viewBox size.
func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no usable viewBox")
	}
	if w > maxSVGEdge || h > maxSVGEdge {
		return nil, fmt.Errorf("svg viewBox %dx%d exceeds %d pixels", w, h, maxSVGEdge)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}

// downscale shrinks img so neither side exceeds limit.
func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if longest <= limit {
		return img
	}
	ratio := float64(limit) / float64(longest)
	w := max(1, int(math.Round(float64(b.Dx())*ratio)))
	h := max(1, int(math.Round(float64(b.Dy())*ratio)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
