package controllers

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/responses"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/validators"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/ingest"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
)

const (
	uploadFormField     = "file"
	multipartOverhead   = 1 << 20
	multipartMemoryCap  = 8 << 20
	uploadFilenameLimit = 255
)

// UploadImage accepts one multipart image, validates it and places it on the
// active view.
func UploadImage(manager *session.Manager, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodePayloadTooLarge, err, "upload exceeds the size limit").
					WithDetails(map[string]any{"maxBytes": maxBytes}))
				return
			}
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "invalid multipart upload"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "image file required").
				WithDetails(map[string]any{"field": uploadFormField}))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "read upload"))
			return
		}

		result, err := s.Upload(r.Context(), ingest.Upload{
			Filename: validators.SanitizeString(header.Filename, uploadFilenameLimit),
			Data:     data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// DownloadView renders one customized view as an 800x800 PNG attachment.
func DownloadView(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		view, err := validators.ParseViewParam(r, "view")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fileName, data, err := s.DownloadView(r.Context(), view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFile(w, "image/png", fileName, data)
	}
}

type exportResponse struct {
	Views     []exportedView `json:"views"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Possible  int            `json:"possible"`
}

type exportedView struct {
	View     string `json:"view"`
	FileName string `json:"fileName"`
	Failed   bool   `json:"failed,omitempty"`
}

// ExportDesign renders every customized view and reports the outcome of each.
// The images themselves are fetched per view through DownloadView.
func ExportDesign(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		summary, err := s.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := exportResponse{
			Views:     make([]exportedView, 0, len(summary.Results)),
			Succeeded: summary.Succeeded,
			Failed:    summary.Failed,
			Possible:  summary.Possible,
		}
		for _, res := range summary.Results {
			out.Views = append(out.Views, exportedView{
				View:     res.View.String(),
				FileName: res.FileName,
				Failed:   res.Err != nil,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
