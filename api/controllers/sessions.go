package controllers

import (
	"net/http"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/responses"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/validators"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	pkgAuth "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/auth"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/google/uuid"
)

type createSessionRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	VariantID string `json:"variantId" validate:"omitempty,uuid"`
}

type createSessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Session   session.Status `json:"session"`
}

// CreateSession opens a design session on a product and returns the token
// that authorizes every later call on it.
func CreateSession(manager *session.Manager, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "session manager unavailable"))
			return
		}

		var body createSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID := uuid.MustParse(body.ProductID)
		variantID := uuid.Nil
		if body.VariantID != "" {
			variantID = uuid.MustParse(body.VariantID)
		}

		s, err := manager.Create(r.Context(), productID, variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now()
		token, err := pkgAuth.MintSessionToken(jwtCfg, now, pkgAuth.SessionTokenPayload{
			SessionID: s.ID(),
			ProductID: productID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeInternal, err, "mint session token"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createSessionResponse{
			Token:     token,
			ExpiresAt: now.Add(jwtCfg.TTL()).UTC(),
			Session:   s.Status(),
		})
	}
}

// GetSession reports the session state, active view and canvas contents.
func GetSession(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, s.Status())
	}
}

// ActivateView switches the live canvas to another garment view.
func ActivateView(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
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
		status, err := s.Activate(view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// Acknowledge records the image usage rights confirmation.
func Acknowledge(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		if err := s.Acknowledge(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"acknowledged": true})
	}
}

// Review flushes the canvas and moves the session to size selection.
func Review(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		status, err := s.Review()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// ResumeDesign returns a reviewing session to editing.
func ResumeDesign(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		status, err := s.Design()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CancelSession abandons the session.
func CancelSession(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		if err := s.Cancel(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

func lookupSession(w http.ResponseWriter, r *http.Request, manager *session.Manager, logg *logger.Logger) (*session.DesignSession, bool) {
	if manager == nil {
		responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "session manager unavailable"))
		return nil, false
	}
	id, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	s, err := manager.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return s, true
}
