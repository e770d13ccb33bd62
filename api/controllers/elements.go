package controllers

import (
	"net/http"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/responses"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/validators"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
)

type addTextRequest struct {
	Content       string  `json:"content" validate:"required,max=500"`
	FontFamily    string  `json:"fontFamily" validate:"omitempty,max=64"`
	Bold          bool    `json:"bold"`
	Italic        bool    `json:"italic"`
	Strikethrough bool    `json:"strikethrough"`
	Fill          string  `json:"fill" validate:"omitempty,hexcolor"`
	Size          float64 `json:"size" validate:"omitempty,gt=0,max=400"`
}

type updateTextRequest struct {
	Content       *string  `json:"content" validate:"omitempty,max=500"`
	FontFamily    *string  `json:"fontFamily" validate:"omitempty,max=64"`
	Bold          *bool    `json:"bold"`
	Italic        *bool    `json:"italic"`
	Strikethrough *bool    `json:"strikethrough"`
	Fill          *string  `json:"fill" validate:"omitempty,hexcolor"`
	Size          *float64 `json:"size" validate:"omitempty,gt=0,max=400"`
}

type gestureRequest struct {
	Phase string  `json:"phase" validate:"required,oneof=press move release"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type transformRequest struct {
	Action string  `json:"action" validate:"required,oneof=scale-up scale-down flip-x flip-y nudge"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

type layerRequest struct {
	Move string `json:"move" validate:"required,oneof=front back forward backward"`
}

type layerResponse struct {
	Changed bool                 `json:"changed"`
	Layers  []session.LayerEntry `json:"layers"`
}

// AddText places a text element at the center of the active view.
func AddText(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		var body addTextRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		el, err := s.AddText(session.TextInput{
			Content:       body.Content,
			FontFamily:    validators.SanitizeString(body.FontFamily, 64),
			Bold:          body.Bold,
			Italic:        body.Italic,
			Strikethrough: body.Strikethrough,
			Fill:          body.Fill,
			Size:          body.Size,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, el)
	}
}

// UpdateText applies a formatting or content patch to a text element.
func UpdateText(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		elementID, err := validators.ElementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateTextRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		el, err := s.UpdateText(elementID, canvas.TextPatch{
			Content:       body.Content,
			FontFamily:    body.FontFamily,
			Bold:          body.Bold,
			Italic:        body.Italic,
			Strikethrough: body.Strikethrough,
			Fill:          body.Fill,
			Size:          body.Size,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, el)
	}
}

// SelectElement makes an element the formatting panel target.
func SelectElement(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		elementID, err := validators.ElementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		formatting, err := s.Select(elementID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, formatting)
	}
}

// ClearSelection drops the current selection.
func ClearSelection(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		formatting, err := s.ClearSelection()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, formatting)
	}
}

// Gesture feeds one pointer event to the canvas.
func Gesture(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		var body gestureRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		phase, err := enums.ParseGesturePhase(body.Phase)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "invalid gesture phase"))
			return
		}
		result, err := s.Gesture(session.GestureInput{Phase: phase, X: body.X, Y: body.Y})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TransformElement scales, flips or nudges an element.
func TransformElement(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		elementID, err := validators.ElementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body transformRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseTransformAction(body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "invalid transform"))
			return
		}
		el, err := s.Transform(elementID, session.TransformInput{Action: action, DX: body.DX, DY: body.DY})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, el)
	}
}

// MoveLayer restacks an element and returns the new layer list.
func MoveLayer(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		elementID, err := validators.ElementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body layerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		move, err := enums.ParseLayerMove(body.Move)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "invalid layer move"))
			return
		}
		changed, entries, err := s.MoveLayer(elementID, move)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, layerResponse{Changed: changed, Layers: entries})
	}
}

// ListLayers returns the design elements of the active view, top first.
func ListLayers(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, layerResponse{Layers: s.Layers()})
	}
}

// DeleteElement removes an element from the active view.
func DeleteElement(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		elementID, err := validators.ElementIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := s.Delete(elementID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
