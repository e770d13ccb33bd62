package ingest

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
)

// Rule names identify which check rejected or warned about an upload.
const (
	RuleMimeType    = "mime_type"
	RuleMinBytes    = "min_bytes"
	RuleMaxBytes    = "max_bytes"
	RuleDecode      = "decode"
	RuleMinPixels   = "min_pixels"
	RuleMaxPixels   = "max_pixels"
	RulePrintPixels = "print_pixels"
)

// Rules holds the acceptance thresholds and placement workspace.
type Rules struct {
	MinBytes          int64
	MaxBytes          int64
	MinPixels         int
	MaxPixels         int
	MaxDecodePixels   int64
	RecommendedPixels int
	WorkspaceWidth    float64
	WorkspaceHeight   float64
	CanvasWidth       int
	CanvasHeight      int
}

// RulesFromConfig merges the media and canvas settings.
func RulesFromConfig(media config.MediaConfig, canvas config.CanvasConfig) Rules {
	return Rules{
		MinBytes:          media.MinBytes,
		MaxBytes:          media.MaxBytes(),
		MinPixels:         media.MinPixels,
		MaxPixels:         media.MaxPixels,
		MaxDecodePixels:   media.MaxDecodePixels,
		RecommendedPixels: media.RecommendedPixels,
		WorkspaceWidth:    media.WorkspaceWidth,
		WorkspaceHeight:   media.WorkspaceHeight,
		CanvasWidth:       canvas.Width,
		CanvasHeight:      canvas.Height,
	}
}

// Observer is told about every upload outcome.
type Observer interface {
	UploadAccepted(mimeType string)
	UploadRejected(rule string)
}

// Upload is a raw file handed to the pipeline.
type Upload struct {
	Filename string
	Data     []byte
}

// Warning is a non-fatal finding about an accepted upload.
type Warning struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result is an accepted, normalized upload.
type Result struct {
	Image          image.Image
	MimeType       string
	OriginalWidth  int
	OriginalHeight int
	Warnings       []Warning
}

// Pipeline validates uploads and turns them into placed image elements.
type Pipeline struct {
	rules    Rules
	observer Observer
}

func NewPipeline(rules Rules, observer Observer) (*Pipeline, error) {
	if rules.MaxBytes <= rules.MinBytes {
		return nil, fmt.Errorf("max bytes must exceed min bytes")
	}
	if rules.MinPixels <= 0 || rules.MaxPixels < rules.MinPixels {
		return nil, fmt.Errorf("invalid pixel bounds")
	}
	if rules.MaxDecodePixels < int64(rules.MaxPixels)*int64(rules.MaxPixels) {
		return nil, fmt.Errorf("decode area cap must cover %dx%d", rules.MaxPixels, rules.MaxPixels)
	}
	if rules.CanvasWidth <= 0 || rules.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size required")
	}
	if rules.WorkspaceWidth <= 0 || rules.WorkspaceHeight <= 0 {
		return nil, fmt.Errorf("workspace fractions required")
	}
	return &Pipeline{rules: rules, observer: observer}, nil
}

// Process runs the validation sequence. Every rejection is a validation
// error naming the rule that failed; nothing is created on rejection.
func (p *Pipeline) Process(ctx context.Context, up Upload) (*Result, error) {
	mimeType, ok := sniffMimeType(up.Data)
	if !ok {
		return nil, p.reject(RuleMimeType, pkgerrors.CodeUnsupportedMedia,
			fmt.Sprintf("unsupported file type %s; upload %s", mimeType, allowedMimeDescription()))
	}

	size := int64(len(up.Data))
	if size < p.rules.MinBytes || size == 0 {
		return nil, p.reject(RuleMinBytes, pkgerrors.CodeValidation, "file is empty or too small to be an image")
	}
	if size > p.rules.MaxBytes {
		return nil, p.reject(RuleMaxBytes, pkgerrors.CodePayloadTooLarge,
			fmt.Sprintf("file exceeds the %s limit", formatBytes(p.rules.MaxBytes)))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// header dimensions are checked before any pixel buffer is allocated
	headerW, headerH, err := dimensions(mimeType, up.Data)
	if err != nil {
		return nil, p.rejectWithCause(RuleDecode, err, "image could not be decoded")
	}
	if int64(headerW)*int64(headerH) > p.rules.MaxDecodePixels {
		return nil, p.reject(RuleMaxPixels, pkgerrors.CodeValidation,
			fmt.Sprintf("image is %dx%d pixels; uploads above %d megapixels are not accepted",
				headerW, headerH, p.rules.MaxDecodePixels/1_000_000))
	}
	img, err := decode(mimeType, up.Data)
	if err != nil {
		return nil, p.rejectWithCause(RuleDecode, err, "image could not be decoded")
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < p.rules.MinPixels || h < p.rules.MinPixels {
		return nil, p.reject(RuleMinPixels, pkgerrors.CodeValidation,
			fmt.Sprintf("image is %dx%d pixels; minimum is %dx%d", w, h, p.rules.MinPixels, p.rules.MinPixels))
	}

	res := &Result{Image: img, MimeType: mimeType, OriginalWidth: w, OriginalHeight: h}
	if w > p.rules.MaxPixels || h > p.rules.MaxPixels {
		res.Warnings = append(res.Warnings, Warning{
			Rule:    RuleMaxPixels,
			Message: fmt.Sprintf("image is %dx%d pixels and will be scaled down to %d pixels", w, h, p.rules.MaxPixels),
		})
		res.Image = downscale(img, p.rules.MaxPixels)
	}
	if p.rules.RecommendedPixels > 0 && (w < p.rules.RecommendedPixels || h < p.rules.RecommendedPixels) {
		res.Warnings = append(res.Warnings, Warning{
			Rule: RulePrintPixels,
			Message: fmt.Sprintf("image is %dx%d pixels; at least %dx%d is recommended for print",
				w, h, p.rules.RecommendedPixels, p.rules.RecommendedPixels),
		})
	}

	if p.observer != nil {
		p.observer.UploadAccepted(mimeType)
	}
	return res, nil
}

// Place builds the image element for an accepted upload: fitted into the
// workspace box with its aspect ratio kept, centered on the canvas.
func (p *Pipeline) Place(res *Result, elementID, assetID string) design.Element {
	b := res.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	boxW := p.rules.WorkspaceWidth * float64(p.rules.CanvasWidth)
	boxH := p.rules.WorkspaceHeight * float64(p.rules.CanvasHeight)
	scale := math.Min(boxW/w, boxH/h)
	if scale > 1 {
		scale = 1
		// still upscale when the original would show smaller than the minimum
		if minEdge := math.Min(float64(p.rules.MinPixels), math.Min(boxW, boxH)); math.Max(w, h) < minEdge {
			scale = minEdge / math.Max(w, h)
		}
	}

	return design.Element{
		ID:   elementID,
		Kind: enums.ElementKindImage,
		Transform: design.Transform{
			CenterX: float64(p.rules.CanvasWidth) / 2,
			CenterY: float64(p.rules.CanvasHeight) / 2,
			ScaleX:  scale,
			ScaleY:  scale,
		},
		Width:  w,
		Height: h,
		Image: &design.ImageContent{
			AssetID: assetID,
			Width:   res.OriginalWidth,
			Height:  res.OriginalHeight,
		},
	}
}

func (p *Pipeline) reject(rule string, code pkgerrors.Code, message string) error {
	if p.observer != nil {
		p.observer.UploadRejected(rule)
	}
	return pkgerrors.New(code, message).WithDetails(map[string]any{"rule": rule})
}

func (p *Pipeline) rejectWithCause(rule string, cause error, message string) error {
	if p.observer != nil {
		p.observer.UploadRejected(rule)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, message).WithDetails(map[string]any{"rule": rule})
}

// RuleOf extracts the rule name from a rejection, if present.
func RuleOf(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return ""
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return ""
	}
	rule, _ := details["rule"].(string)
	return strings.TrimSpace(rule)
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d KB", (n+1023)/1024)
}
