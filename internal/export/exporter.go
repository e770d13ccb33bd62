// Package export composites stored view documents over garment backgrounds
// into print-ready PNG files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"regexp"
	"strings"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/constraints"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"go.uber.org/multierr"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// BackgroundLoader fetches the garment image for a background reference.
type BackgroundLoader interface {
	LoadBackground(ctx context.Context, ref string) (image.Image, error)
}

// Observer is told about every per-view outcome.
type Observer interface {
	ViewExported(view enums.View, err error)
}

// Options configures an Exporter.
type Options struct {
	CanvasWidth  int
	CanvasHeight int
	OutputSize   int
	Timeout      time.Duration
	Engine       *constraints.Engine
	Text         *canvas.FontBook
	Backgrounds  BackgroundLoader
	Observer     Observer
	Logger       *logger.Logger
}

// Request is a consistent snapshot of everything an export needs. It must not
// share mutable state with the live session.
type Request struct {
	ProductName string
	Document    *design.Document
	Backgrounds map[enums.View]string
	Assets      canvas.AssetSource
}

// ViewResult is the outcome of one view.
type ViewResult struct {
	View     enums.View `json:"view"`
	FileName string     `json:"fileName"`
	PNG      []byte     `json:"-"`
	Err      error      `json:"-"`
}

// Summary joins the per-view results in preview priority order.
type Summary struct {
	Results   []ViewResult
	Succeeded int
	Failed    int
	Possible  int
}

// Partial reports whether at least one view rendered.
func (s Summary) Partial() bool { return s.Succeeded > 0 }

// Complete reports whether every attempted view rendered.
func (s Summary) Complete() bool { return s.Failed == 0 && s.Succeeded > 0 }

// Err combines every per-view failure.
func (s Summary) Err() error {
	var err error
	for _, r := range s.Results {
		if r.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", r.View, r.Err))
		}
	}
	return err
}

// Result returns the outcome for view, if it was attempted.
func (s Summary) Result(view enums.View) (ViewResult, bool) {
	for _, r := range s.Results {
		if r.View == view {
			return r, true
		}
	}
	return ViewResult{}, false
}

// Exporter renders views on isolated off-screen surfaces.
type Exporter struct {
	opts Options
}

func NewExporter(opts Options) (*Exporter, error) {
	if opts.CanvasWidth <= 0 || opts.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive")
	}
	if opts.OutputSize <= 0 {
		return nil, fmt.Errorf("output size must be positive")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("constraint engine required")
	}
	if opts.Text == nil {
		return nil, fmt.Errorf("font book required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Exporter{opts: opts}, nil
}

// Export renders every view holding at least one element. Views run
// concurrently; a failing view never cancels the others. Cancelling ctx
// aborts in-flight work.
func (e *Exporter) Export(ctx context.Context, req Request) (Summary, error) {
	if req.Document == nil {
		return Summary{}, fmt.Errorf("design document required")
	}
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	views, err := req.Document.CustomizedViews()
	if err != nil {
		return Summary{}, fmt.Errorf("reading stored views: %w", err)
	}

	results := make([]ViewResult, len(views))
	g, gctx := errgroup.WithContext(ctx)
	for i, view := range views {
		results[i] = ViewResult{View: view, FileName: FileName(req.ProductName, view)}
		g.Go(func() error {
			data, err := e.renderView(gctx, req, view)
			if err != nil {
				results[i].Err = err
			} else {
				results[i].PNG = data
			}
			if e.opts.Observer != nil {
				e.opts.Observer.ViewExported(view, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Results: results, Possible: len(enums.Views)}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			e.opts.Logger.Error(e.opts.Logger.WithView(ctx, string(r.View)), "view export failed", r.Err)
			continue
		}
		summary.Succeeded++
	}
	if err := ctx.Err(); err != nil && !summary.Partial() {
		return summary, err
	}
	return summary, nil
}

// RenderView composites a single view regardless of whether it is empty.
func (e *Exporter) RenderView(ctx context.Context, req Request, view enums.View) ([]byte, error) {
	if req.Document == nil {
		return nil, fmt.Errorf("design document required")
	}
	if !view.IsValid() {
		return nil, fmt.Errorf("invalid view %q", view)
	}
	return e.renderView(ctx, req, view)
}

func (e *Exporter) renderView(ctx context.Context, req Request, view enums.View) ([]byte, error) {
	doc, err := req.Document.View(view)
	if err != nil {
		return nil, err
	}

	surface, err := canvas.NewSurface(canvas.Options{
		Width:    e.opts.CanvasWidth,
		Height:   e.opts.CanvasHeight,
		View:     view,
		Engine:   e.opts.Engine,
		Measurer: e.opts.Text,
	})
	if err != nil {
		return nil, err
	}
	if err := surface.Load(doc); err != nil {
		return nil, err
	}
	layer, err := surface.Render(ctx, canvas.RenderOptions{Assets: req.Assets, Text: e.opts.Text, Export: true})
	if err != nil {
		return nil, err
	}

	size := e.opts.OutputSize
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if ref := req.Backgrounds[view]; ref != "" && e.opts.Backgrounds != nil {
		bg, err := e.opts.Backgrounds.LoadBackground(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("loading background %s: %w", ref, err)
		}
		xdraw.CatmullRom.Scale(out, out.Bounds(), bg, bg.Bounds(), xdraw.Over, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xdraw.CatmullRom.Scale(out, out.Bounds(), layer, layer.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// FileName is "<product>-<View>.png" with the product slugged.
func FileName(product string, view enums.View) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(product), "-"), "-")
	if slug == "" {
		slug = "design"
	}
	return fmt.Sprintf("%s-%s.png", slug, view.Label())
}
