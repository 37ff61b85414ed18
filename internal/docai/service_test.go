package docai

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/config"
	"kassa/internal/logger"
)

type stubClient struct {
	pred *prediction
	err  error
}

func (s *stubClient) Parse(_ context.Context, _ []byte, _ string) (*prediction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pred, nil
}

func floatPtr(v float64) *float64 { return &v }

func TestParseDocumentMapsPrediction(t *testing.T) {
	pred := &prediction{
		TotalAmount:     amountField{Value: floatPtr(42.50), Confidence: 0.95},
		TotalTax:        amountField{Value: floatPtr(6.79), Confidence: 0.9},
		Date:            dateField{Value: "2024-12-01", Confidence: 0.85},
		SupplierName:    stringField{Value: "REWE Markt GmbH", Confidence: 0.9},
		SupplierAddress: stringField{Value: "Hauptstr. 1, 10115 Berlin", Confidence: 0.8},
		Currency:        stringField{Value: "eur", Confidence: 0.99},
		LineItems: []lineItem{
			{Description: "Milk 1L", Quantity: floatPtr(2), TotalAmount: floatPtr(2.58)},
			{Description: "Bread", TotalAmount: floatPtr(1.99)},
		},
	}

	svc := &serviceImpl{client: &stubClient{pred: pred}, enabled: true, logger: logger.NopLogger()}
	result := svc.ParseDocument(context.Background(), []byte("%PDF-1.4"), "receipt.pdf")

	assert.True(t, result.Success)
	assert.Equal(t, "receipt.pdf", result.FileName)
	require.NotNil(t, result.Amount)
	assert.InDelta(t, 42.50, *result.Amount, 0.001)
	assert.Equal(t, "EUR", result.Currency)
	require.NotNil(t, result.Date)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), result.Date.UTC())
	assert.Equal(t, "REWE Markt GmbH", result.Merchant)
	assert.Equal(t, "Lebensmittel", result.Category)

	// Mean of the three present field confidences.
	assert.InDelta(t, (0.95+0.85+0.9)/3, result.OverallConfidence, 0.0001)

	require.NotNil(t, result.Additional)
	assert.InDelta(t, 6.79, result.Additional["TotalTax"].(float64), 0.001)
	assert.Equal(t, "Hauptstr. 1, 10115 Berlin", result.Additional["SupplierAddress"])
	assert.Equal(t, 2, result.Additional["LineItemCount"])
}

func TestParseDocumentCategoryFromLineItems(t *testing.T) {
	pred := &prediction{
		TotalAmount:  amountField{Value: floatPtr(55.00), Confidence: 0.9},
		SupplierName: stringField{Value: "Station 442", Confidence: 0.7},
		LineItems: []lineItem{
			{Description: "Diesel 38.5L", TotalAmount: floatPtr(55.00)},
		},
	}

	svc := &serviceImpl{client: &stubClient{pred: pred}, enabled: true, logger: logger.NopLogger()}
	result := svc.ParseDocument(context.Background(), []byte{0x01}, "pump.jpg")

	assert.Equal(t, "Tankstelle", result.Category)
}

func TestParseDocumentPartialConfidences(t *testing.T) {
	pred := &prediction{
		TotalAmount: amountField{Value: floatPtr(10.00), Confidence: 0.8},
	}

	svc := &serviceImpl{client: &stubClient{pred: pred}, enabled: true, logger: logger.NopLogger()}
	result := svc.ParseDocument(context.Background(), []byte{0x01}, "a.pdf")

	assert.True(t, result.Success)
	assert.Equal(t, "Unknown", result.Merchant)
	assert.Nil(t, result.Date)
	// Only the amount confidence exists; the missing fields do not dilute it.
	assert.InDelta(t, 0.8, result.OverallConfidence, 0.0001)
}

func TestParseDocumentClientError(t *testing.T) {
	svc := &serviceImpl{
		client:  &stubClient{err: fmt.Errorf("docai returned status: 502")},
		enabled: true,
		logger:  logger.NopLogger(),
	}

	result := svc.ParseDocument(context.Background(), []byte{0x01}, "broken.pdf")

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "502")
	assert.Equal(t, "broken.pdf", result.FileName)
	assert.Nil(t, result.Amount)
	assert.Zero(t, result.OverallConfidence)
}

func TestParseDocumentEmptyContent(t *testing.T) {
	svc := &serviceImpl{client: &stubClient{}, enabled: true, logger: logger.NopLogger()}

	result := svc.ParseDocument(context.Background(), nil, "empty.pdf")

	assert.False(t, result.Success)
	assert.Equal(t, "attachment is empty", result.ErrorMessage)
}

func TestParseDocumentDisabled(t *testing.T) {
	svc := NewService(config.DocAIConfig{}, config.CircuitBreakerConfig{}, logger.NopLogger())

	assert.False(t, svc.Enabled())
	result := svc.ParseDocument(context.Background(), []byte{0x01}, "a.pdf")
	assert.False(t, result.Success)
}

func TestOverallConfidence(t *testing.T) {
	assert.InDelta(t, 0.6, overallConfidence(0.5, 0.7), 0.0001)
	assert.InDelta(t, 0.9, overallConfidence(0.9, 0, 0), 0.0001)
	assert.Zero(t, overallConfidence(0, 0, 0))
	assert.Zero(t, overallConfidence())
}
