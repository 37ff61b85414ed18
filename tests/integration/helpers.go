package integration

import (
	"time"

	"kassa/internal/audit"
	"kassa/internal/logger"
	"kassa/internal/receipt"
)

const (
	containerStartupTimeout = 60
	timestampDelay          = 10 * time.Millisecond
)

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestReceipt(messageID, merchant string, amount float64, date time.Time) *receipt.Receipt {
	return &receipt.Receipt{
		MessageID:       messageID,
		Merchant:        merchant,
		Amount:          amount,
		Currency:        "EUR",
		Category:        "Lebensmittel",
		TransactionDate: date,
		ReceivedDate:    date,
		Sender:          "noreply@" + merchant + ".example",
		Subject:         "Ihr Kaufbeleg",
		Source:          "text",
		Confidence:      0.5,
	}
}

func createTestWebhookLog(messageID, status string, receivedAt time.Time) *audit.WebhookLog {
	return &audit.WebhookLog{
		MessageID:  messageID,
		Sender:     "sender@example.com",
		Subject:    "Rechnung",
		Status:     status,
		ReceivedAt: receivedAt,
	}
}
