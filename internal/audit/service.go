package audit

import (
	"context"
	"time"

	"kassa/internal/config"
	"kassa/internal/logger"
)

// Service writes webhook delivery logs and ages out old entries. The whole
// package is best-effort: a missing Postgres connection or a failed insert
// never blocks receipt processing.
type Service interface {
	Record(ctx context.Context, entry WebhookLog)
	List(ctx context.Context, limit, offset int) ([]WebhookLog, error)
	RunRetention(ctx context.Context)
}

type serviceImpl struct {
	repo   Repository
	cfg    config.AuditConfig
	logger logger.Logger
}

func NewService(repo Repository, cfg config.AuditConfig, log logger.Logger) Service {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		logger: log,
	}
}

func (s *serviceImpl) Record(ctx context.Context, entry WebhookLog) {
	if s.repo == nil {
		return
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now()
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		s.logger.WarnwCtx(ctx, "failed to record webhook log",
			"message_id", entry.MessageID,
			"status", entry.Status,
			"error", err,
		)
	}
}

func (s *serviceImpl) List(ctx context.Context, limit, offset int) ([]WebhookLog, error) {
	if s.repo == nil {
		return []WebhookLog{}, nil
	}
	return s.repo.List(ctx, limit, offset)
}

// RunRetention deletes entries older than the configured retention window.
// Called periodically from the service bootstrap.
func (s *serviceImpl) RunRetention(ctx context.Context) {
	if s.repo == nil || s.cfg.RetentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warnw("webhook log retention failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Infow("webhook log retention completed",
			"deleted", deleted,
			"cutoff", cutoff,
		)
	}
}
