package session

import (
	"context"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/ingest"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/google/uuid"
)

// UploadResult is an accepted image placed on the active view.
type UploadResult struct {
	Element  ElementView      `json:"element"`
	MimeType string           `json:"mimeType"`
	Warnings []ingest.Warning `json:"warnings"`
}

// Upload validates and decodes an image without holding the session lock,
// then places it centered on the active view on top of the paint order.
// Nothing is created when a rule rejects the file.
func (s *DesignSession) Upload(ctx context.Context, up ingest.Upload) (*UploadResult, error) {
	s.mu.Lock()
	err := s.requireDesigning()
	if err == nil {
		err = s.gate.Check()
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithField(ctx, "filename", up.Filename)
	res, err := s.deps.Pipeline.Process(ctx, up)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "rule", ingest.RuleOf(err)), "upload rejected")
		return nil, err
	}

	assetID := uuid.NewString()
	key := ""
	if s.deps.Storage != nil {
		key = assetKey(s.id.String(), assetID)
		if err := archiveAsset(ctx, s.deps.Storage, key, res.Image); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing uploaded image")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDesigning(); err != nil {
		return nil, err
	}
	s.assets.put(assetID, res.Image, key)
	el := s.deps.Pipeline.Place(res, uuid.NewString(), assetID)
	h, err := s.surface.Add(el)
	if err != nil {
		return nil, err
	}
	s.gate.Record()
	if err := s.surface.Select(h.ID()); err != nil {
		return nil, err
	}
	s.touch()

	if len(res.Warnings) > 0 {
		s.logg.Warn(s.logg.WithField(s.ctx, "warnings", len(res.Warnings)), "upload accepted with warnings")
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []ingest.Warning{}
	}
	return &UploadResult{
		Element:  ElementView{Element: h.Element(), Violation: h.Violation()},
		MimeType: res.MimeType,
		Warnings: warnings,
	}, nil
}
