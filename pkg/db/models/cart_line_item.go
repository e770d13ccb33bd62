package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLineItem is one submitted size of a customized product.
type CartLineItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SubmissionID   uuid.UUID         `gorm:"column:submission_id;type:uuid;not null;uniqueIndex:idx_cart_line_items_submission_size,priority:1"`
	SessionID      uuid.UUID         `gorm:"column:session_id;type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	VariantID      uuid.UUID         `gorm:"column:variant_id;type:uuid;not null"`
	Size           string            `gorm:"column:size;not null;uniqueIndex:idx_cart_line_items_submission_size,priority:2"`
	Quantity       int               `gorm:"column:quantity;not null"`
	BasePrice      decimal.Decimal   `gorm:"column:base_price;type:numeric(10,2);not null"`
	UnitPrice      decimal.Decimal   `gorm:"column:unit_price;type:numeric(10,2);not null"`
	LineTotal      decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null"`
	Currency       string            `gorm:"column:currency;not null"`
	ElementCount   int               `gorm:"column:element_count;not null"`
	PrimaryPreview string            `gorm:"column:primary_preview"`
	Previews       map[string]string `gorm:"column:previews;type:jsonb;serializer:json;not null"`
	DesignSnapshot json.RawMessage   `gorm:"column:design_snapshot;type:jsonb;serializer:json;not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (c *CartLineItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
