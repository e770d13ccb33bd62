package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a customizable garment of the catalog.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Slug         string           `gorm:"column:slug;not null;uniqueIndex"`
	Name         string           `gorm:"column:name;not null"`
	BasePrice    decimal.Decimal  `gorm:"column:base_price;type:numeric(10,2);not null"`
	Currency     string           `gorm:"column:currency;not null;default:'EUR'"`
	Sizes        []string         `gorm:"column:sizes;type:jsonb;serializer:json;not null"`
	ZoneDocument json.RawMessage  `gorm:"column:zone_document;type:jsonb;serializer:json"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
