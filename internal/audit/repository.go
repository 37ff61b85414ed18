package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kassa/internal/constants"
	"kassa/pkg/metrics"
)

type Repository interface {
	Insert(ctx context.Context, entry *WebhookLog) error
	List(ctx context.Context, limit, offset int) ([]WebhookLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, entry *WebhookLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO webhook_logs (id, message_id, sender, subject, status, detail, receipt_id, attachment_count, duration_ms, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var receiptID *string
	if entry.ReceiptID != "" {
		receiptID = &entry.ReceiptID
	}

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.MessageID, entry.Sender, entry.Subject,
		entry.Status, entry.Detail, receiptID,
		entry.AttachmentCount, entry.DurationMs, entry.ReceivedAt, entry.CreatedAt,
	)
	metrics.ObserveDatabaseQueryDuration("postgres", "insert_webhook_log", time.Since(start))

	if err != nil {
		metrics.IncDatabaseQuery("postgres", "insert_webhook_log", "error")
		return fmt.Errorf("failed to insert webhook log: %w", err)
	}
	metrics.IncDatabaseQuery("postgres", "insert_webhook_log", "success")
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]WebhookLog, error) {
	if limit <= 0 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}

	query := `
		SELECT id, message_id, sender, subject, status, detail, receipt_id, attachment_count, duration_ms, received_at, created_at
		FROM webhook_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook logs: %w", err)
	}
	defer rows.Close()

	var entries []WebhookLog
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		var entry WebhookLog
		var receiptID sql.NullString
		if err := rows.Scan(
			&entry.ID, &entry.MessageID, &entry.Sender, &entry.Subject,
			&entry.Status, &entry.Detail, &receiptID,
			&entry.AttachmentCount, &entry.DurationMs, &entry.ReceivedAt, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan webhook log: %w", err)
		}
		entry.ReceiptID = receiptID.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM webhook_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired webhook logs: %w", err)
	}
	return res.RowsAffected()
}
