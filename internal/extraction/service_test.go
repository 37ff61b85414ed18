package extraction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/constants"
	"kassa/internal/logger"
)

func TestExtract(t *testing.T) {
	svc := NewService(logger.NopLogger())
	ctx := context.Background()

	content := "Amazon.de Bestellbestätigung\n" +
		"Gesamtbetrag: 49,99 €\n" +
		"Bestelldatum: 12. Juni 2025\n"

	data := svc.Extract(ctx, content, "order-update@amazon.de")

	assert.Equal(t, "Amazon", data.Merchant)
	require.NotNil(t, data.Amount)
	assert.InDelta(t, 49.99, *data.Amount, 0.001)
	assert.Equal(t, "EUR", data.Currency)
	require.NotNil(t, data.Date)
	assert.Equal(t, time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC), data.Date.UTC())
	assert.Equal(t, "Online Shopping", data.Category)
	assert.Equal(t, constants.ExtractionSourceText, data.Source)
}

func TestExtractSupermarketAuxiliaryFields(t *testing.T) {
	svc := NewService(logger.NopLogger())

	content := "REWE Markt\nSUMME EUR 23,45\nEC-KARTE\nDatum: 05.03.2024"
	data := svc.Extract(context.Background(), content, "")

	assert.Equal(t, "Lebensmittel", data.Category)
	require.NotNil(t, data.Additional)
	assert.Equal(t, "EC-KARTE", data.Additional["PaymentMethod"])
}

func TestExtractEmptyContent(t *testing.T) {
	svc := NewService(logger.NopLogger())

	data := svc.Extract(context.Background(), "", "")

	assert.Equal(t, constants.DefaultMerchant, data.Merchant)
	assert.Nil(t, data.Amount)
	assert.Equal(t, constants.DefaultCurrency, data.Currency)
	assert.Nil(t, data.Date)
	assert.Empty(t, data.Category)
}
