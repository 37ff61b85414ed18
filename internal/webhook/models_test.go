package webhook

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc 2822 single digit day",
			input: "Tue, 3 Jun 2025 21:46:05 +0000",
			want:  time.Date(2025, time.June, 3, 21, 46, 5, 0, time.UTC),
		},
		{
			name:  "rfc 2822 padded day",
			input: "Tue, 03 Jun 2025 21:46:05 +0200",
			want:  time.Date(2025, time.June, 3, 19, 46, 5, 0, time.UTC),
		},
		{
			name:  "iso 8601",
			input: "2025-06-03T21:46:05Z",
			want:  time.Date(2025, time.June, 3, 21, 46, 5, 0, time.UTC),
		},
		{
			name:  "sql timestamp",
			input: "2025-06-03 21:46:05",
			want:  time.Date(2025, time.June, 3, 21, 46, 5, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InboundEmail{Date: tt.input}.ParseDate()
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseDateFallsBackToNow(t *testing.T) {
	for _, input := range []string{"", "not a date"} {
		got := InboundEmail{Date: input}.ParseDate()
		assert.WithinDuration(t, time.Now(), got, time.Minute)
	}
}

func TestToMessage(t *testing.T) {
	email := InboundEmail{
		MessageID: "msg-1",
		Date:      "Tue, 3 Jun 2025 21:46:05 +0000",
		Subject:   "Ihre Rechnung",
		From:      "billing@example.com",
		FromName:  "Example Billing",
		TextBody:  "Gesamtbetrag: 12,00 €",
		Attachments: []InboundAttachment{
			{
				Name:        "rechnung.pdf",
				Content:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
				ContentType: "application/pdf",
			},
		},
	}

	msg, err := email.ToMessage()
	require.NoError(t, err)

	assert.Equal(t, "msg-1", msg.MessageID)
	assert.Equal(t, "billing@example.com", msg.From)
	assert.Equal(t, time.Date(2025, time.June, 3, 21, 46, 5, 0, time.UTC), msg.ReceivedAt)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, []byte("%PDF-1.4"), msg.Attachments[0].Content)
	assert.Equal(t, int64(8), msg.Attachments[0].Size)
}

func TestToMessageFromFullFallback(t *testing.T) {
	email := InboundEmail{
		MessageID: "msg-2",
		FromFull:  &EmailAddress{Email: "shop@example.com", Name: "Shop"},
	}

	msg, err := email.ToMessage()
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", msg.From)
}

func TestToMessageBadAttachment(t *testing.T) {
	email := InboundEmail{
		MessageID: "msg-3",
		Attachments: []InboundAttachment{
			{Name: "broken.pdf", Content: "not base64 !!!"},
		},
	}

	_, err := email.ToMessage()
	assert.Error(t, err)
}
