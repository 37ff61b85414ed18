package audit

import "time"

// WebhookLog records the outcome of one webhook delivery. Rows live in
// Postgres and age out after the configured retention window.
type WebhookLog struct {
	ID              string    `json:"id"`
	MessageID       string    `json:"message_id"`
	Sender          string    `json:"sender"`
	Subject         string    `json:"subject"`
	Status          string    `json:"status"`
	Detail          string    `json:"detail,omitempty"`
	ReceiptID       string    `json:"receipt_id,omitempty"`
	AttachmentCount int       `json:"attachment_count"`
	DurationMs      int64     `json:"duration_ms"`
	ReceivedAt      time.Time `json:"received_at"`
	CreatedAt       time.Time `json:"created_at"`
}

const (
	StatusProcessed = "processed"
	StatusDuplicate = "duplicate"
	StatusIgnored   = "ignored"
	StatusFailed    = "failed"
)
