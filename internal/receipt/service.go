package receipt

import (
	"context"
	"time"

	"kassa/internal/constants"
	"kassa/internal/logger"
	pkgerrors "kassa/pkg/errors"
	"kassa/pkg/metrics"
)

type Service interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, id string) (*Receipt, error)
	GetByMessageID(ctx context.Context, messageID string) (*Receipt, error)
	List(ctx context.Context, filter ListFilter) ([]Receipt, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo   Repository
	logger logger.Logger
}

func NewService(repo Repository, log logger.Logger) Service {
	return &serviceImpl{
		repo:   repo,
		logger: log,
	}
}

func (s *serviceImpl) Create(ctx context.Context, r *Receipt) error {
	if err := validateReceipt(r); err != nil {
		return err
	}

	if r.Currency == "" {
		r.Currency = constants.DefaultCurrency
	}
	if r.Category == "" {
		r.Category = constants.DefaultCategory
	}
	if r.Merchant == "" {
		r.Merchant = constants.DefaultMerchant
	}
	if r.TransactionDate.IsZero() {
		r.TransactionDate = time.Now()
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}

	metrics.IncReceiptCreated(r.Category)
	s.logger.InfowCtx(ctx, "receipt created",
		"receipt_id", r.ID,
		"message_id", r.MessageID,
		"merchant", r.Merchant,
		"amount", r.Amount,
		"currency", r.Currency,
		"category", r.Category,
	)
	return nil
}

func validateReceipt(r *Receipt) error {
	if r.MessageID == "" {
		return pkgerrors.ErrValidation.WithDetail("message", "message_id is required")
	}
	if r.Amount < 0 {
		return pkgerrors.ErrValidation.WithDetail("message", "amount must not be negative")
	}
	return nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id string) (*Receipt, error) {
	if id == "" {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *serviceImpl) GetByMessageID(ctx context.Context, messageID string) (*Receipt, error) {
	if messageID == "" {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "message_id is required")
	}
	return s.repo.GetByMessageID(ctx, messageID)
}

func (s *serviceImpl) List(ctx context.Context, filter ListFilter) ([]Receipt, error) {
	return s.repo.List(ctx, filter)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.ErrValidation.WithDetail("message", "id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfowCtx(ctx, "receipt deleted", "receipt_id", id)
	return nil
}
