package dedup

import (
	"context"
	"fmt"
	"time"

	"kassa/internal/config"
	"kassa/internal/constants"
	"kassa/internal/logger"
	"kassa/pkg/metrics"
	"kassa/pkg/tracing"
)

// Service runs the best-effort duplicate pre-check against Redis. It is an
// optimization in front of the unique index on message_id; when Redis is
// unavailable the configured fallback decides whether the message proceeds.
type Service interface {
	IsNew(ctx context.Context, messageID string) (bool, error)
}

type serviceImpl struct {
	repo   Repository
	cfg    config.DeduplicationConfig
	logger logger.Logger
}

func NewService(repo Repository, cfg config.DeduplicationConfig, log logger.Logger) Service {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		logger: log,
	}
}

// IsNew returns true when the message ID has not been seen within the TTL
// window. The claim is written as part of the check, so concurrent deliveries
// of the same ID race on a single SetNX.
func (s *serviceImpl) IsNew(ctx context.Context, messageID string) (bool, error) {
	ctx, span := tracing.GetTracer("ingest-service").Start(ctx, "dedup.is_new")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	if messageID == "" {
		return false, fmt.Errorf("message id is empty")
	}

	if s.repo == nil {
		// No Redis configured. The unique index on message_id still rejects
		// duplicates at persist time.
		metrics.IncDedupCheck("skipped")
		return true, nil
	}

	ttl := time.Duration(s.cfg.TTLSeconds) * time.Second
	claimed, err := s.repo.Claim(ctx, messageID, ttl)
	if err != nil {
		return s.handleStoreError(ctx, err, messageID)
	}

	if claimed {
		metrics.IncDedupCheck("unique")
	} else {
		metrics.IncDedupCheck("duplicate")
		s.logger.InfowCtx(ctx, "duplicate message detected",
			"message_id", messageID,
		)
	}
	return claimed, nil
}

func (s *serviceImpl) handleStoreError(ctx context.Context, err error, messageID string) (bool, error) {
	metrics.IncDedupCheck("error")

	if s.cfg.OnRedisError == constants.FallbackDeny {
		metrics.FallbackUsageTotal.WithLabelValues("dedup", "deny_on_error", "redis_unavailable").Inc()
		return false, fmt.Errorf("dedup check failed for message %s: %w", messageID, err)
	}

	metrics.FallbackUsageTotal.WithLabelValues("dedup", "allow_on_error", "redis_unavailable").Inc()
	s.logger.WarnwCtx(ctx, "dedup store error, allowing message through",
		"message_id", messageID,
		"error", err,
	)
	return true, nil
}
