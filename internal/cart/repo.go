package cart

import (
	"context"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists submitted cart line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateItems inserts every line item of a submission.
func (r *Repository) CreateItems(ctx context.Context, items []models.CartLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindBySubmission loads the items of a submission ordered by size.
func (r *Repository) FindBySubmission(ctx context.Context, submissionID uuid.UUID) ([]models.CartLineItem, error) {
	var items []models.CartLineItem
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("size ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
