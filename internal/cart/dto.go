package cart

import (
	"encoding/json"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemDTO is the API and event shape of a cart line item.
type LineItemDTO struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      uuid.UUID         `json:"productId"`
	VariantID      uuid.UUID         `json:"variantId"`
	Size           string            `json:"size"`
	Quantity       int               `json:"quantity"`
	BasePrice      decimal.Decimal   `json:"basePrice"`
	UnitPrice      decimal.Decimal   `json:"unitPrice"`
	LineTotal      decimal.Decimal   `json:"lineTotal"`
	Currency       string            `json:"currency"`
	ElementCount   int               `json:"elementCount"`
	PrimaryPreview string            `json:"primaryPreview,omitempty"`
	Previews       map[string]string `json:"previews"`
	DesignSnapshot json.RawMessage   `json:"designSnapshot"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Submission groups the line items produced by one design submission.
type Submission struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"sessionId"`
	Items     []LineItemDTO   `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

func lineItemFromModel(m models.CartLineItem) LineItemDTO {
	return LineItemDTO{
		ID:             m.ID,
		ProductID:      m.ProductID,
		VariantID:      m.VariantID,
		Size:           m.Size,
		Quantity:       m.Quantity,
		BasePrice:      m.BasePrice,
		UnitPrice:      m.UnitPrice,
		LineTotal:      m.LineTotal,
		Currency:       m.Currency,
		ElementCount:   m.ElementCount,
		PrimaryPreview: m.PrimaryPreview,
		Previews:       m.Previews,
		DesignSnapshot: m.DesignSnapshot,
		CreatedAt:      m.CreatedAt,
	}
}

func submissionFromModels(id, sessionID uuid.UUID, items []models.CartLineItem) *Submission {
	out := &Submission{ID: id, SessionID: sessionID, Items: make([]LineItemDTO, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		out.Items = append(out.Items, lineItemFromModel(item))
		out.Total = out.Total.Add(item.LineTotal)
		out.Currency = item.Currency
	}
	return out
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
