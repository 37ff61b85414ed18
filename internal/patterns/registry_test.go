package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
	}{
		{
			name:     "amazon order confirmation",
			text:     "Ihre Bestellung bei Amazon.de wurde versandt",
			wantName: "amazon",
		},
		{
			name:     "paypal payment",
			text:     "Sie haben eine Zahlung über PayPal gesendet",
			wantName: "paypal",
		},
		{
			name:     "supermarket till receipt",
			text:     "REWE Markt GmbH SUMME EUR 23,45",
			wantName: "supermarket",
		},
		{
			name:     "gas station",
			text:     "SHELL Station 1234 Gesamt EUR 65,00",
			wantName: "gasstation",
		},
		{
			name:     "pharmacy",
			text:     "ROSSMANN Drogeriemarkt SUMME EUR 12,99",
			wantName: "pharmacy",
		},
		{
			name:     "fast food",
			text:     "BURGER KING Bestellung 12345 Gesamt 8,49",
			wantName: "fastfood",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Detect(tt.text)
			require.NotNil(t, p)
			assert.Equal(t, tt.wantName, p.Name)
		})
	}
}

func TestDetectNoMatch(t *testing.T) {
	assert.Nil(t, Detect("weekly newsletter with no merchant markers"))
	assert.Nil(t, Detect(""))
}

func TestDetectOrderIsPreserved(t *testing.T) {
	// A supermarket receipt mentioning PayPal in the footer must still
	// resolve to the earlier-registered category.
	text := "Bezahlt via PayPal. Amazon.de Bestellbestätigung"
	p := Detect(text)
	require.NotNil(t, p)
	assert.Equal(t, "amazon", p.Name)

	text = "REWE SUMME EUR 10,00 - Jetzt auch mit PayPal bezahlen"
	p = Detect(text)
	require.NotNil(t, p)
	assert.Equal(t, "paypal", p.Name, "paypal is registered before supermarket")
}

func TestRegistryOrder(t *testing.T) {
	wantOrder := []string{
		"amazon", "paypal", "supermarket", "gasstation",
		"restaurant", "onlineshopping", "pharmacy", "fastfood",
	}

	all := All()
	require.Len(t, all, len(wantOrder))
	for i, p := range all {
		assert.Equal(t, wantOrder[i], p.Name)
	}
}
