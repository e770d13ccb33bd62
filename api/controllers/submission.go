package controllers

import (
	"net/http"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/responses"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/validators"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/google/uuid"
)

type quoteRequest struct {
	Quantities map[string]int `json:"quantities" validate:"required,dive,keys,required,max=16,endkeys,gte=0,max=10000"`
}

type submitRequest struct {
	SubmissionID string         `json:"submissionId" validate:"omitempty,uuid"`
	Quantities   map[string]int `json:"quantities" validate:"required,dive,keys,required,max=16,endkeys,gte=0,max=10000"`
}

type quoteResponse struct {
	PerUnit       string         `json:"perUnit"`
	Total         string         `json:"total"`
	Currency      string         `json:"currency"`
	TotalQuantity int            `json:"totalQuantity"`
	Quantities    map[string]int `json:"quantities"`
}

type submitResponse struct {
	Quote      quoteResponse         `json:"quote"`
	Submission *cart.Submission      `json:"submission"`
	Previews   map[enums.View]string `json:"previews"`
	Exported   int                   `json:"exported"`
	Possible   int                   `json:"possible"`
}

func quoteDTO(q pricing.Quote, currency string) quoteResponse {
	return quoteResponse{
		PerUnit:       q.PerUnit.StringFixed(2),
		Total:         q.Total.StringFixed(2),
		Currency:      currency,
		TotalQuantity: q.TotalQuantity,
		Quantities:    q.Quantities,
	}
}

// QuoteDesign prices the stored design for the requested size quantities.
func QuoteDesign(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := s.Quote(body.Quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteDTO(quote, s.Configuration().Currency))
	}
}

// SubmitDesign exports the previews and hands one cart line item per ordered
// size to the cart.
func SubmitDesign(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, manager, logg)
		if !ok {
			return
		}
		var body submitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID := uuid.New()
		if body.SubmissionID != "" {
			submissionID = uuid.MustParse(body.SubmissionID)
		}

		result, err := s.Submit(r.Context(), session.SubmitInput{
			SubmissionID: submissionID,
			Quantities:   body.Quantities,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submitResponse{
			Quote:      quoteDTO(result.Quote, s.Configuration().Currency),
			Submission: result.Submission,
			Previews:   result.Previews,
			Exported:   result.Exported,
			Possible:   result.Possible,
		})
	}
}
