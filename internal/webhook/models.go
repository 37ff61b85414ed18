package webhook

import (
	"encoding/base64"
	"fmt"
	"time"

	"kassa/pkg/models"
)

// InboundEmail is the Postmark-style inbound webhook payload. Field names
// match the provider's PascalCase JSON. Date arrives as a string in several
// formats and is parsed tolerantly; attachments arrive base64 encoded.
type InboundEmail struct {
	MessageID   string              `json:"MessageID"`
	Date        string              `json:"Date"`
	Subject     string              `json:"Subject"`
	From        string              `json:"From"`
	FromName    string              `json:"FromName"`
	FromFull    *EmailAddress       `json:"FromFull,omitempty"`
	To          string              `json:"To"`
	ToFull      []EmailAddress      `json:"ToFull,omitempty"`
	Cc          string              `json:"Cc,omitempty"`
	ReplyTo     string              `json:"ReplyTo,omitempty"`
	MailboxHash string              `json:"MailboxHash,omitempty"`
	TextBody    string              `json:"TextBody"`
	HTMLBody    string              `json:"HtmlBody"`
	Attachments []InboundAttachment `json:"Attachments,omitempty"`
}

type EmailAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type InboundAttachment struct {
	Name          string `json:"Name"`
	Content       string `json:"Content"`
	ContentType   string `json:"ContentType"`
	ContentLength int64  `json:"ContentLength"`
}

// inboundDateLayouts are tried in order. Providers are inconsistent here:
// RFC 2822 with and without zero-padded days, ISO 8601 variants, and a bare
// SQL-style timestamp have all been observed.
var inboundDateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate resolves the wire date string. An unparseable or missing date
// falls back to now; the webhook never rejects a delivery over it.
func (e InboundEmail) ParseDate() time.Time {
	if e.Date == "" {
		return time.Now().UTC()
	}
	for _, layout := range inboundDateLayouts {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// ToMessage converts the wire payload into the internal message, decoding
// attachment content. A corrupt attachment fails the whole conversion so the
// sender sees the error and can redeliver.
func (e InboundEmail) ToMessage() (models.InboundMessage, error) {
	msg := models.InboundMessage{
		MessageID:  e.MessageID,
		From:       e.From,
		FromName:   e.FromName,
		Subject:    e.Subject,
		TextBody:   e.TextBody,
		HTMLBody:   e.HTMLBody,
		ReceivedAt: e.ParseDate(),
	}
	if msg.From == "" && e.FromFull != nil {
		msg.From = e.FromFull.Email
	}

	for _, att := range e.Attachments {
		content, err := base64.StdEncoding.DecodeString(att.Content)
		if err != nil {
			return models.InboundMessage{}, fmt.Errorf("failed to decode attachment %q: %w", att.Name, err)
		}
		size := att.ContentLength
		if size == 0 {
			size = int64(len(content))
		}
		msg.Attachments = append(msg.Attachments, models.Attachment{
			Name:        att.Name,
			ContentType: att.ContentType,
			Content:     content,
			Size:        size,
		})
	}

	return msg, nil
}
