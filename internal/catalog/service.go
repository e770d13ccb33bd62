// Package catalog loads the product configuration a design session edits:
// price, sizes, printable zones and the garment photo of every view.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db/models"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Configuration is the resolved product and variant a session designs on.
type Configuration struct {
	ProductID   uuid.UUID
	VariantID   uuid.UUID
	Slug        string
	Name        string
	VariantName string
	BasePrice   decimal.Decimal
	Currency    string
	Sizes       []string
	Zones       zones.Document
	Backgrounds map[enums.View]string
}

// Background implements documents.BackgroundResolver.
func (c *Configuration) Background(view enums.View) string {
	if c == nil {
		return ""
	}
	return c.Backgrounds[view]
}

// HasSize reports whether size is offered for the product.
func (c *Configuration) HasSize(size string) bool {
	for _, candidate := range c.Sizes {
		if candidate == size {
			return true
		}
	}
	return false
}

type productStore interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service resolves product configurations.
type Service interface {
	Configuration(ctx context.Context, productID, variantID uuid.UUID) (*Configuration, error)
}

type service struct {
	repo productStore
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Configuration loads productID. A nil variantID selects the default variant.
func (s *service) Configuration(ctx context.Context, productID, variantID uuid.UUID) (*Configuration, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	variant, err := pickVariant(product, variantID)
	if err != nil {
		return nil, err
	}

	zoneDoc, err := zones.ParseDocument(product.ZoneDocument)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "product zone document is invalid")
	}

	return &Configuration{
		ProductID:   product.ID,
		VariantID:   variant.ID,
		Slug:        product.Slug,
		Name:        product.Name,
		VariantName: variant.Name,
		BasePrice:   product.BasePrice,
		Currency:    product.Currency,
		Sizes:       append([]string(nil), product.Sizes...),
		Zones:       zoneDoc,
		Backgrounds: map[enums.View]string{
			enums.ViewFront: variant.FrontImage,
			enums.ViewBack:  variant.BackImage,
			enums.ViewLeft:  variant.LeftImage,
			enums.ViewRight: variant.RightImage,
		},
	}, nil
}

func pickVariant(product *models.Product, variantID uuid.UUID) (*models.ProductVariant, error) {
	if len(product.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no variants")
	}
	if variantID == uuid.Nil {
		for i := range product.Variants {
			if product.Variants[i].IsDefault {
				return &product.Variants[i], nil
			}
		}
		return &product.Variants[0], nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found for product")
}
