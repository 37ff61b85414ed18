package models

import "time"

// InboundMessage is the decoded form of one inbound email delivered by the
// webhook. It is transient: constructed from the wire payload, consumed by a
// single processing pass, never persisted as-is.
type InboundMessage struct {
	MessageID   string       `json:"message_id"`
	From        string       `json:"from"`
	FromName    string       `json:"from_name,omitempty"`
	Subject     string       `json:"subject"`
	TextBody    string       `json:"text_body"`
	HTMLBody    string       `json:"html_body,omitempty"`
	ReceivedAt  time.Time    `json:"received_at"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Body returns the preferred text content for extraction: the plain-text body
// when present, the HTML body otherwise.
func (m InboundMessage) Body() string {
	if m.TextBody != "" {
		return m.TextBody
	}
	return m.HTMLBody
}

// Attachment carries one decoded attachment. Content holds raw bytes; base64
// decoding happens at the webhook boundary.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
	Size        int64  `json:"size"`
}

// ExtractedData is the structured result of one extraction pass, produced
// either from raw text or from a parsed document. Confidence is always within
// [0, 1]; Amount, when set, is non-negative.
type ExtractedData struct {
	Merchant   string                 `json:"merchant"`
	Amount     *float64               `json:"amount,omitempty"`
	Currency   string                 `json:"currency"`
	Date       *time.Time             `json:"date,omitempty"`
	Category   string                 `json:"category"`
	Confidence float64                `json:"confidence"`
	Source     string                 `json:"source"`
	Additional map[string]interface{} `json:"additional,omitempty"`
}

// ReceiptEvent is published to the broker after a receipt has been persisted.
type ReceiptEvent struct {
	ReceiptID       string    `json:"receipt_id"`
	MessageID       string    `json:"message_id"`
	Merchant        string    `json:"merchant"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Category        string    `json:"category"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}
