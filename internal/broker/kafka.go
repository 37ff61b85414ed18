package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"kassa/internal/config"
	"kassa/internal/constants"
	"kassa/internal/logger"
	"kassa/pkg/metrics"
	"kassa/pkg/models"
	"kassa/pkg/retry"
	"kassa/pkg/tracing"
)

type KafkaProducer struct {
	writer *kafka.Writer
	cfg    config.KafkaConfig
	logger logger.Logger
}

func NewProducer(cfg config.BrokerConfig, log logger.Logger) (Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		Async:        false,
	}
	return &KafkaProducer{writer: w, cfg: cfg.Kafka, logger: log}, nil
}

// PublishReceiptCreated writes the event with retries. Event delivery is
// best effort from the caller's perspective; processing already succeeded
// by the time this runs.
func (p *KafkaProducer) PublishReceiptCreated(ctx context.Context, event models.ReceiptEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt event: %w", err)
	}

	headers := tracing.InjectTraceContext(ctx, []kafka.Header{})
	topic := p.cfg.ReceiptTopic

	policy := retry.DefaultPolicy()
	if p.cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = p.cfg.Retry.MaxAttempts
	}
	if p.cfg.Retry.InitialInterval > 0 {
		policy.InitialInterval = p.cfg.Retry.InitialInterval
	}
	if p.cfg.Retry.MaxInterval > 0 {
		policy.MaxInterval = p.cfg.Retry.MaxInterval
	}
	if p.cfg.Retry.Multiplier > 0 {
		policy.Multiplier = p.cfg.Retry.Multiplier
	}
	if p.cfg.Retry.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = p.cfg.Retry.MaxElapsedTime
	}

	start := time.Now()
	err = retry.RetryWithCallback(ctx, policy, func() error {
		return p.writer.WriteMessages(ctx,
			kafka.Message{
				Topic:   topic,
				Key:     []byte(event.ReceiptID),
				Value:   body,
				Headers: headers,
				Time:    time.Now(),
			},
		)
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues("broker", "publish").Inc()
		p.logger.WarnwCtx(ctx, "Retrying kafka publish",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
			"topic", topic,
		)
	})

	if err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncKafkaMessagesWritten(topic)
	metrics.ObserveKafkaWriteDuration(topic, time.Since(start))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopProducer is installed when the broker is disabled.
type NopProducer struct{}

func NewNopProducer() *NopProducer {
	return &NopProducer{}
}

func (p *NopProducer) PublishReceiptCreated(ctx context.Context, event models.ReceiptEvent) error {
	return nil
}

func (p *NopProducer) Close() error {
	return nil
}
