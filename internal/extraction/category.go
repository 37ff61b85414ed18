package extraction

import (
	"strings"

	"kassa/internal/constants"
)

// CategoryForMerchant maps a merchant name to a spending category via
// keyword lookup. Used for backfilling when neither extraction path
// produced a category.
func CategoryForMerchant(merchant string) string {
	if merchant == "" {
		return constants.DefaultCategory
	}

	m := strings.ToLower(merchant)

	switch {
	case containsAny(m, "amazon", "ebay", "zalando", "otto"):
		return "Online Shopping"
	case containsAny(m, "rewe", "edeka", "aldi", "lidl", "supermarket", "grocery"):
		return "Lebensmittel"
	case containsAny(m, "shell", "aral", "esso", "gas", "petrol", "fuel"):
		return "Tankstelle"
	case containsAny(m, "restaurant", "café", "pizza", "burger", "food", "dining"):
		return "Restaurants"
	case containsAny(m, "pharmacy", "apotheke", "dm", "rossmann"):
		return "Gesundheit & Drogerie"
	}

	return constants.DefaultCategory
}

// CategoryForLineItems falls back to itemized descriptions when the
// merchant name carries no category signal.
func CategoryForLineItems(descriptions []string) string {
	for _, desc := range descriptions {
		d := strings.ToLower(desc)
		switch {
		case containsAny(d, "food", "bread", "milk", "meat"):
			return "Lebensmittel"
		case containsAny(d, "fuel", "petrol", "diesel", "gas"):
			return "Tankstelle"
		case containsAny(d, "clothing", "shirt", "shoes", "dress"):
			return "Kleidung"
		}
	}
	return constants.DefaultCategory
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
