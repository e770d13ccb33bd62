package validators

import (
	"net/http"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseUUIDParam reads a uuid path parameter.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

// ParseViewParam reads a garment view path parameter. A trailing ".png"
// extension is ignored.
func ParseViewParam(r *http.Request, name string) (enums.View, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(chi.URLParam(r, name)), ".png")
	view, err := enums.ParseView(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid view").WithDetails(map[string]any{"field": name})
	}
	return view, nil
}

// ElementIDParam reads a canvas element id.
func ElementIDParam(r *http.Request) (string, error) {
	id := SanitizeString(chi.URLParam(r, "elementId"), 64)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "element id required").WithDetails(map[string]any{"field": "elementId"})
	}
	return id, nil
}
