package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/export"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/google/uuid"
)

const (
	exportPurposeDownload = "download"
	exportPurposeSubmit   = "submit"
)

// Review flushes the live canvas and moves to size and quantity selection.
func (s *DesignSession) Review() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(enums.SessionStateReviewing); err != nil {
		return Status{}, err
	}
	s.surface.ClearSelection()
	if !s.store.FlushPending() {
		s.autosave()
	}
	s.touch()
	return s.status(), nil
}

// Design returns from review to editing. Stored documents are untouched.
func (s *DesignSession) Design() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != enums.SessionStateReviewing {
		return Status{}, s.require(enums.SessionStateReviewing)
	}
	if err := s.transition(enums.SessionStateDesigning); err != nil {
		return Status{}, err
	}
	s.autosave()
	s.touch()
	return s.status(), nil
}

// Cancel abandons the session and aborts in-flight exports.
func (s *DesignSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(enums.SessionStateCancelled); err != nil {
		return err
	}
	s.close()
	s.discard()
	return nil
}

// Quote prices the stored design for quantities without submitting.
func (s *DesignSession) Quote(quantities map[string]int) (pricing.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(enums.SessionStateDesigning, enums.SessionStateReviewing); err != nil {
		return pricing.Quote{}, err
	}
	s.store.FlushPending()
	return s.quote(quantities)
}

func (s *DesignSession) quote(quantities map[string]int) (pricing.Quote, error) {
	for size, qty := range quantities {
		if qty > 0 && !s.cfg.HasSize(size) {
			return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %s is not offered for this product", size))
		}
	}
	count, err := s.store.Document().ElementCount()
	if err != nil {
		return pricing.Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting design elements")
	}
	return s.deps.Calculator.Quote(pricing.Line{
		BasePrice:    s.cfg.BasePrice,
		ElementCount: count,
		Quantities:   quantities,
	})
}

// exportRequest snapshots everything an export reads. The caller holds the
// lock and has flushed.
func (s *DesignSession) exportRequest() export.Request {
	return export.Request{
		ProductName: s.cfg.Name,
		Document:    s.store.Document().Clone(),
		Backgrounds: s.cfg.Backgrounds,
		Assets:      s.assets.clone(),
	}
}

// sessionBound cancels the returned context when the session is torn down.
func (s *DesignSession) sessionBound(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// DownloadView renders one view as a PNG file.
func (s *DesignSession) DownloadView(ctx context.Context, view enums.View) (string, []byte, error) {
	if !view.IsValid() {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid view %q", view))
	}
	s.mu.Lock()
	if err := s.require(enums.SessionStateDesigning, enums.SessionStateReviewing); err != nil {
		s.mu.Unlock()
		return "", nil, err
	}
	s.store.FlushPending()
	req := s.exportRequest()
	s.touch()
	s.mu.Unlock()

	doc, err := req.Document.View(view)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading stored view")
	}
	if doc.IsEmpty() {
		return "", nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("the %s view has no design", view))
	}

	ctx, cancel := s.sessionBound(ctx)
	defer cancel()
	started := time.Now()
	data, err := s.exporter.RenderView(ctx, req, view)
	if s.deps.Recorder != nil {
		s.deps.Recorder.ViewExported(view, err)
		s.deps.Recorder.ObserveExport(exportPurposeDownload, time.Since(started))
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeConflict, ctxErr, "export aborted")
		}
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering view")
	}
	return export.FileName(req.ProductName, view), data, nil
}

// Export renders every customized view.
func (s *DesignSession) Export(ctx context.Context) (export.Summary, error) {
	s.mu.Lock()
	if err := s.require(enums.SessionStateDesigning, enums.SessionStateReviewing); err != nil {
		s.mu.Unlock()
		return export.Summary{}, err
	}
	s.store.FlushPending()
	req := s.exportRequest()
	s.touch()
	s.mu.Unlock()

	return s.runExport(ctx, req, exportPurposeDownload)
}

func (s *DesignSession) runExport(ctx context.Context, req export.Request, purpose string) (export.Summary, error) {
	ctx, cancel := s.sessionBound(ctx)
	defer cancel()
	started := time.Now()
	summary, err := s.exporter.Export(ctx, req)
	if s.deps.Recorder != nil {
		s.deps.Recorder.ObserveExport(purpose, time.Since(started))
	}
	if err != nil {
		return summary, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "export aborted")
	}
	logCtx := s.logg.WithFields(s.ctx, map[string]any{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"complete":  summary.Complete(),
		"purpose":   purpose,
	})
	if ferr := summary.Err(); ferr != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", ferr.Error()), "design exported with failed views")
		return summary, nil
	}
	s.logg.Info(logCtx, "design exported")
	return summary, nil
}

// SubmitInput carries the review choices.
type SubmitInput struct {
	SubmissionID uuid.UUID
	Quantities   map[string]int
}

// SubmitResult is the accepted submission.
type SubmitResult struct {
	Quote      pricing.Quote         `json:"quote"`
	Submission *cart.Submission      `json:"submission"`
	Previews   map[enums.View]string `json:"previews"`
	Exported   int                   `json:"exported"`
	Possible   int                   `json:"possible"`
}

// Submit prices the design, renders the previews and hands one line item
// per ordered size to the cart. Nothing reaches the cart when pricing fails.
func (s *DesignSession) Submit(ctx context.Context, in SubmitInput) (result *SubmitResult, err error) {
	defer func() {
		if s.deps.Recorder != nil {
			s.deps.Recorder.Submitted(err)
		}
	}()

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a submission is in progress")
	}
	if err := s.require(enums.SessionStateReviewing); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.store.FlushPending()
	quote, err := s.quote(in.Quantities)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	count, _ := s.store.Document().ElementCount()
	req := s.exportRequest()
	s.submitting = true
	s.mu.Unlock()

	result, err = s.submit(ctx, in, quote, count, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.logg.Error(s.ctx, "submission failed", err)
		return nil, err
	}
	s.submission = result.Submission
	if terr := s.transition(enums.SessionStateSubmitted); terr != nil {
		return nil, terr
	}
	s.touch()
	s.autosave()
	s.logg.Info(s.logg.WithField(s.ctx, "submission_id", result.Submission.ID.String()), "design submitted")
	return result, nil
}

func (s *DesignSession) submit(ctx context.Context, in SubmitInput, quote pricing.Quote, count int, req export.Request) (*SubmitResult, error) {
	summary, err := s.runExport(ctx, req, exportPurposeSubmit)
	if err != nil {
		return nil, err
	}

	previews := make(map[enums.View]string, summary.Succeeded)
	for _, r := range summary.Results {
		if r.Err != nil {
			continue
		}
		key := r.FileName
		if s.deps.Storage != nil {
			key = previewKey(s.id.String(), r.FileName)
			if err := s.deps.Storage.Put(ctx, key, assetContentType, r.PNG); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing preview")
			}
		}
		previews[r.View] = key
	}

	submission, err := s.deps.Cart.Submit(ctx, cart.SubmitInput{
		SubmissionID:  in.SubmissionID,
		SessionID:     s.id,
		Configuration: s.cfg,
		Quote:         quote,
		ElementCount:  count,
		Document:      req.Document,
		Previews:      previews,
	})
	if err != nil {
		return nil, err
	}
	return &SubmitResult{
		Quote:      quote,
		Submission: submission,
		Previews:   previews,
		Exported:   summary.Succeeded,
		Possible:   summary.Possible,
	}, nil
}
