package extraction

import (
	"regexp"

	"kassa/internal/constants"
)

// Ordered so that ties resolve toward the earlier entry.
var currencyRules = []struct {
	code string
	re   *regexp.Regexp
}{
	{"EUR", regexp.MustCompile(`(?i)(€|EUR|euro)`)},
	{"USD", regexp.MustCompile(`(?i)(\$|USD|dollar)`)},
	{"GBP", regexp.MustCompile(`(?i)(£|GBP|pound)`)},
	{"CHF", regexp.MustCompile(`(?i)(CHF|franken)`)},
	{"PLN", regexp.MustCompile(`(?i)(PLN|zł|zloty)`)},
}

// extractCurrency picks the currency with the highest marker count in
// the text, defaulting to EUR.
func extractCurrency(content string) string {
	if content == "" {
		return constants.DefaultCurrency
	}

	best := constants.DefaultCurrency
	bestCount := 0
	for _, rule := range currencyRules {
		count := len(rule.re.FindAllStringIndex(content, -1))
		if count > bestCount {
			best = rule.code
			bestCount = count
		}
	}

	return best
}
