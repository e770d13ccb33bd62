// Package cart turns a submitted design into one cart line item per ordered
// size and hands the result to the storefront.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/catalog"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db/models"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	eventTypeSubmitted  = "cart.line_items.submitted"
	submissionSizeIndex = "idx_cart_line_items_submission_size"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// EventPublisher announces submissions on a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error)
}

// SubmitInput is everything a submission needs, captured after the final flush.
type SubmitInput struct {
	SubmissionID  uuid.UUID
	SessionID     uuid.UUID
	Configuration *catalog.Configuration
	Quote         pricing.Quote
	ElementCount  int
	Document      *design.Document
	Previews      map[enums.View]string
}

// Service exposes cart line item operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Submission, error)
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*Submission, error)
}

type service struct {
	repo      *Repository
	tx        txRunner
	publisher EventPublisher
	topic     string
	logg      *logger.Logger
}

// NewService builds a cart service. The publisher is optional.
func NewService(repo *Repository, tx txRunner, publisher EventPublisher, topic string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher != nil && topic == "" {
		return nil, fmt.Errorf("cart topic required when publishing")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, publisher: publisher, topic: topic, logg: logg}, nil
}

// BuildLineItems derives one line item per size with a positive quantity.
func BuildLineItems(input SubmitInput) ([]models.CartLineItem, error) {
	if input.Configuration == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product configuration required")
	}
	if input.Document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design document required")
	}
	snapshot, err := json.Marshal(input.Document)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serializing design snapshot")
	}

	previews := make(map[string]string, len(input.Previews))
	primary := ""
	for _, view := range enums.Views {
		key := input.Previews[view]
		if key == "" {
			continue
		}
		previews[string(view)] = key
		if primary == "" {
			primary = key
		}
	}

	items := make([]models.CartLineItem, 0, len(input.Quote.Quantities))
	for _, size := range input.Quote.Sizes() {
		if !input.Configuration.HasSize(size) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %s is not offered for this product", size))
		}
		qty := input.Quote.Quantities[size]
		items = append(items, models.CartLineItem{
			SubmissionID:   input.SubmissionID,
			SessionID:      input.SessionID,
			ProductID:      input.Configuration.ProductID,
			VariantID:      input.Configuration.VariantID,
			Size:           size,
			Quantity:       qty,
			BasePrice:      input.Configuration.BasePrice,
			UnitPrice:      input.Quote.PerUnit,
			LineTotal:      input.Quote.PerUnit.Mul(decimalFromInt(qty)),
			Currency:       input.Configuration.Currency,
			ElementCount:   input.ElementCount,
			PrimaryPreview: primary,
			Previews:       previews,
			DesignSnapshot: snapshot,
		})
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a quantity for at least one size")
	}
	return items, nil
}

// Submit persists the line items in one transaction, then announces them.
// A failed announcement is logged; the items stay committed.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Submission, error) {
	if input.SubmissionID == uuid.Nil {
		input.SubmissionID = uuid.New()
	}
	items, err := BuildLineItems(input)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateItems(ctx, items)
	}); err != nil {
		if db.IsUniqueViolation(err, submissionSizeIndex) {
			return s.replay(ctx, input)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart line items")
	}

	submission := submissionFromModels(input.SubmissionID, input.SessionID, items)
	s.announce(ctx, submission)
	return submission, nil
}

// replay returns a submission that was already recorded under the same id.
// The event is not published again.
func (s *service) replay(ctx context.Context, input SubmitInput) (*Submission, error) {
	existing, err := s.GetSubmission(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}
	if existing.SessionID != input.SessionID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission id already used by another session")
	}
	return existing, nil
}

func (s *service) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*Submission, error) {
	items, err := s.repo.FindBySubmission(ctx, submissionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
	}
	return submissionFromModels(submissionID, items[0].SessionID, items), nil
}

func (s *service) announce(ctx context.Context, submission *Submission) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(submission)
	if err == nil {
		_, err = s.publisher.Publish(ctx, s.topic, payload, map[string]string{
			"event_type":    eventTypeSubmitted,
			"submission_id": submission.ID.String(),
		})
	}
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "submission_id", submission.ID.String()), "publishing cart submission failed", err)
	}
}
