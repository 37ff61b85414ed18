package processing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/config"
	"kassa/internal/constants"
	"kassa/internal/dedup"
	"kassa/internal/docai"
	"kassa/internal/extraction"
	"kassa/internal/logger"
	"kassa/internal/receipt"
	pkgerrors "kassa/pkg/errors"
	"kassa/pkg/models"
)

type memoryReceipts struct {
	byMessageID map[string]*receipt.Receipt
	nextID      int
}

func newMemoryReceipts() *memoryReceipts {
	return &memoryReceipts{byMessageID: make(map[string]*receipt.Receipt)}
}

func (m *memoryReceipts) Create(_ context.Context, r *receipt.Receipt) error {
	if _, exists := m.byMessageID[r.MessageID]; exists {
		return pkgerrors.ErrConflict
	}
	m.nextID++
	r.ID = "r-" + string(rune('0'+m.nextID))
	r.CreatedAt = time.Now()
	stored := *r
	m.byMessageID[r.MessageID] = &stored
	return nil
}

func (m *memoryReceipts) GetByID(_ context.Context, id string) (*receipt.Receipt, error) {
	for _, r := range m.byMessageID {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *memoryReceipts) GetByMessageID(_ context.Context, messageID string) (*receipt.Receipt, error) {
	if r, ok := m.byMessageID[messageID]; ok {
		return r, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *memoryReceipts) List(_ context.Context, _ receipt.ListFilter) ([]receipt.Receipt, error) {
	var out []receipt.Receipt
	for _, r := range m.byMessageID {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memoryReceipts) Delete(_ context.Context, _ string) error { return nil }

type stubDocai struct {
	enabled bool
	result  docai.Result
	calls   int
}

func (s *stubDocai) Enabled() bool { return s.enabled }

func (s *stubDocai) ParseDocument(_ context.Context, _ []byte, fileName string) docai.Result {
	s.calls++
	r := s.result
	r.FileName = fileName
	return r
}

type capturingPublisher struct {
	events []models.ReceiptEvent
}

func (p *capturingPublisher) PublishReceiptCreated(_ context.Context, event models.ReceiptEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService(receipts receipt.Service, documents docai.Service, producer Publisher) Service {
	log := logger.NopLogger()
	return NewService(
		receipts,
		extraction.NewService(log),
		documents,
		dedup.NewService(nil, config.DeduplicationConfig{TTLSeconds: 60, OnRedisError: "allow"}, log),
		nil,
		producer,
		log,
	)
}

func amazonMessage() models.InboundMessage {
	return models.InboundMessage{
		MessageID:  "msg-amazon-1",
		From:       "order-update@amazon.de",
		Subject:    "Ihre Bestellbestätigung",
		TextBody:   "Amazon.de Bestellbestätigung\nGesamtbetrag: 49,99 €\nBestelldatum: 12. Juni 2025\n",
		ReceivedAt: time.Date(2025, time.June, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestProcessTextOnlyReceipt(t *testing.T) {
	receipts := newMemoryReceipts()
	publisher := &capturingPublisher{}
	svc := newTestService(receipts, nil, publisher)

	result := svc.Process(context.Background(), amazonMessage())

	require.True(t, result.Success)
	require.NotEmpty(t, result.ReceiptID)
	require.NotNil(t, result.Extracted)

	stored := receipts.byMessageID["msg-amazon-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "Amazon", stored.Merchant)
	assert.InDelta(t, 49.99, stored.Amount, 0.001)
	assert.Equal(t, "EUR", stored.Currency)
	assert.Equal(t, "Online Shopping", stored.Category)
	assert.Equal(t, constants.ExtractionSourceText, stored.Source)
	assert.InDelta(t, constants.TextOnlyConfidence, stored.Confidence, 0.0001)
	assert.Equal(t, time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC), stored.TransactionDate.UTC())
	assert.Equal(t, time.Date(2025, time.June, 12, 10, 0, 0, 0, time.UTC), stored.ReceivedDate.UTC())
	assert.Empty(t, stored.ExtractedText)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, stored.ID, publisher.events[0].ReceiptID)
}

func TestProcessNonReceiptEmail(t *testing.T) {
	receipts := newMemoryReceipts()
	svc := newTestService(receipts, nil, nil)

	result := svc.Process(context.Background(), models.InboundMessage{
		MessageID: "msg-news-1",
		From:      "newsletter@example.com",
		Subject:   "Unsere Neuigkeiten im Juni",
		TextBody:  "Hallo! Hier sind unsere neuesten Artikel.",
	})

	assert.True(t, result.Success)
	assert.Empty(t, result.ReceiptID)
	assert.Equal(t, "Email processed but no receipt detected", result.Message)
	assert.Empty(t, receipts.byMessageID)
}

func TestProcessDuplicateReturnsExistingReceipt(t *testing.T) {
	receipts := newMemoryReceipts()
	svc := newTestService(receipts, nil, nil)

	first := svc.Process(context.Background(), amazonMessage())
	require.True(t, first.Success)

	second := svc.Process(context.Background(), amazonMessage())
	assert.True(t, second.Success)
	assert.Equal(t, first.ReceiptID, second.ReceiptID)
	assert.Equal(t, "Already processed", second.Message)
	assert.Len(t, receipts.byMessageID, 1)
}

func TestProcessDocumentResultWins(t *testing.T) {
	receipts := newMemoryReceipts()
	amount := 105.50
	date := time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)
	documents := &stubDocai{
		enabled: true,
		result: docai.Result{
			Success:           true,
			Amount:            &amount,
			Currency:          "EUR",
			Date:              &date,
			Merchant:          "MediaMarkt",
			Category:          "Online Shopping",
			OverallConfidence: 0.9,
		},
	}
	svc := newTestService(receipts, documents, nil)

	msg := amazonMessage()
	msg.Attachments = []models.Attachment{
		{Name: "rechnung.pdf", ContentType: "application/pdf", Content: []byte("%PDF"), Size: 4},
	}

	result := svc.Process(context.Background(), msg)
	require.True(t, result.Success)

	stored := receipts.byMessageID[msg.MessageID]
	require.NotNil(t, stored)
	assert.Equal(t, "MediaMarkt", stored.Merchant)
	assert.InDelta(t, 105.50, stored.Amount, 0.001)
	assert.Equal(t, constants.ExtractionSourceDocument, stored.Source)
	assert.InDelta(t, 0.9, stored.Confidence, 0.0001)
	assert.Equal(t, msg.ReceivedAt, stored.ReceivedDate)
	assert.Contains(t, stored.ExtractedText, "MediaMarkt")
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "rechnung.pdf", stored.Attachments[0].FileName)
	assert.Equal(t, "parsed, confidence 0.90", stored.Attachments[0].ProcessingDetails)
}

func TestProcessLowConfidenceDocumentFallsBackToText(t *testing.T) {
	receipts := newMemoryReceipts()
	amount := 999.99
	documents := &stubDocai{
		enabled: true,
		result: docai.Result{
			Success:           true,
			Amount:            &amount,
			Merchant:          "Wrong Reading",
			OverallConfidence: 0.4,
		},
	}
	svc := newTestService(receipts, documents, nil)

	msg := amazonMessage()
	msg.Attachments = []models.Attachment{
		{Name: "scan.jpg", ContentType: "image/jpeg", Content: []byte{0xFF, 0xD8}, Size: 2},
	}

	result := svc.Process(context.Background(), msg)
	require.True(t, result.Success)

	stored := receipts.byMessageID[msg.MessageID]
	require.NotNil(t, stored)
	assert.Equal(t, "Amazon", stored.Merchant)
	assert.InDelta(t, 49.99, stored.Amount, 0.001)
	assert.Equal(t, constants.ExtractionSourceText, stored.Source)
	assert.InDelta(t, constants.TextOnlyConfidence, stored.Confidence, 0.0001)

	// The document tier ran, so its serialized result and the attachment
	// outcome are kept even though the text tier won.
	assert.Contains(t, stored.ExtractedText, "Wrong Reading")
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "parsed, confidence 0.40", stored.Attachments[0].ProcessingDetails)
}

func TestProcessDocumentFieldFallback(t *testing.T) {
	receipts := newMemoryReceipts()
	amount := 105.50
	documents := &stubDocai{
		enabled: true,
		result: docai.Result{
			Success:           true,
			Amount:            &amount,
			Merchant:          constants.DefaultMerchant,
			OverallConfidence: 0.85,
		},
	}
	svc := newTestService(receipts, documents, nil)

	msg := amazonMessage()
	msg.Attachments = []models.Attachment{
		{Name: "beleg.pdf", ContentType: "application/pdf", Content: []byte("%PDF"), Size: 4},
	}

	result := svc.Process(context.Background(), msg)
	require.True(t, result.Success)

	stored := receipts.byMessageID[msg.MessageID]
	require.NotNil(t, stored)
	// Amount from the document, merchant and date filled from the text tier.
	assert.InDelta(t, 105.50, stored.Amount, 0.001)
	assert.Equal(t, "Amazon", stored.Merchant)
	assert.Equal(t, time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC), stored.TransactionDate.UTC())
	assert.Equal(t, constants.ExtractionSourceDocument, stored.Source)
}

func TestProcessRecordsFailedAttachmentParse(t *testing.T) {
	receipts := newMemoryReceipts()
	documents := &stubDocai{
		enabled: true,
		result:  docai.Result{Success: false, ErrorMessage: "request timed out"},
	}
	svc := newTestService(receipts, documents, nil)

	msg := amazonMessage()
	msg.Attachments = []models.Attachment{
		{Name: "rechnung.pdf", ContentType: "application/pdf", Content: []byte("%PDF"), Size: 4},
	}

	result := svc.Process(context.Background(), msg)
	require.True(t, result.Success)

	assert.Equal(t, 1, documents.calls)
	stored := receipts.byMessageID[msg.MessageID]
	require.NotNil(t, stored)
	assert.Equal(t, "Amazon", stored.Merchant)
	assert.Empty(t, stored.ExtractedText)
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "parse failed: request timed out", stored.Attachments[0].ProcessingDetails)
}

func TestFuseMergesAdditional(t *testing.T) {
	amount := 105.50
	text := models.ExtractedData{
		Merchant: "Amazon",
		Additional: map[string]interface{}{
			"order_number":   "123-4567890",
			"payment_method": "visa",
		},
	}
	doc := &docai.Result{
		Success:           true,
		Amount:            &amount,
		Merchant:          "MediaMarkt",
		OverallConfidence: 0.9,
		Additional: map[string]interface{}{
			"payment_method": "mastercard",
			"total_tax":      16.85,
		},
	}

	fused := fuse(text, doc)

	assert.Equal(t, "123-4567890", fused.Additional["order_number"])
	assert.Equal(t, "mastercard", fused.Additional["payment_method"])
	assert.Equal(t, 16.85, fused.Additional["total_tax"])
}

func TestProcessDateBackfilledFromReceivedAt(t *testing.T) {
	receipts := newMemoryReceipts()
	svc := newTestService(receipts, nil, nil)

	received := time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)
	result := svc.Process(context.Background(), models.InboundMessage{
		MessageID:  "msg-nodate-1",
		From:       "billing@rewe.de",
		Subject:    "Ihre Rechnung",
		TextBody:   "Vielen Dank für Ihren Einkauf. Summe EUR 23,45",
		ReceivedAt: received,
	})

	require.True(t, result.Success)
	stored := receipts.byMessageID["msg-nodate-1"]
	require.NotNil(t, stored)
	assert.True(t, received.Equal(stored.TransactionDate))
}

func TestProcessSkipsNonReceiptAttachments(t *testing.T) {
	receipts := newMemoryReceipts()
	documents := &stubDocai{enabled: true, result: docai.Result{Success: false}}
	svc := newTestService(receipts, documents, nil)

	msg := amazonMessage()
	msg.Attachments = []models.Attachment{
		{Name: "signature.txt", ContentType: "text/plain", Content: []byte("--"), Size: 2},
	}

	result := svc.Process(context.Background(), msg)
	require.True(t, result.Success)

	assert.Zero(t, documents.calls)
	stored := receipts.byMessageID[msg.MessageID]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Attachments)
}

func TestIsReceiptEmail(t *testing.T) {
	assert.True(t, isReceiptEmail(models.InboundMessage{Subject: "Ihre Rechnung für Juni"}))
	assert.True(t, isReceiptEmail(models.InboundMessage{TextBody: "order confirmation #1234"}))
	assert.True(t, isReceiptEmail(models.InboundMessage{Subject: "Sie haben mit PayPal bezahlt"}))
	assert.True(t, isReceiptEmail(models.InboundMessage{
		Subject:     "Dokumente",
		Attachments: []models.Attachment{{Name: "scan.pdf", ContentType: "application/pdf"}},
	}))
	assert.False(t, isReceiptEmail(models.InboundMessage{
		Subject:  "Treffen nächste Woche",
		TextBody: "Hallo, passt Dienstag?",
	}))
}

func TestIsReceiptAttachment(t *testing.T) {
	assert.True(t, isReceiptAttachment(models.Attachment{ContentType: "application/pdf"}))
	assert.True(t, isReceiptAttachment(models.Attachment{ContentType: "image/png"}))
	assert.True(t, isReceiptAttachment(models.Attachment{Name: "Rechnung_0425.xyz", ContentType: "application/octet-stream"}))
	assert.False(t, isReceiptAttachment(models.Attachment{Name: "notes.txt", ContentType: "text/plain"}))
}

func TestIsDocumentCandidate(t *testing.T) {
	assert.True(t, isDocumentCandidate(models.Attachment{Name: "scan.pdf", ContentType: "application/octet-stream"}))
	assert.True(t, isDocumentCandidate(models.Attachment{ContentType: "image/jpeg"}))
	assert.False(t, isDocumentCandidate(models.Attachment{Name: "notes.txt", ContentType: "text/plain"}))
}
