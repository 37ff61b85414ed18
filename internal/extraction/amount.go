package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"kassa/internal/patterns"
)

// Generic amount rules, tried in order when no merchant pattern matched
// or its rules found nothing. Covers German, US, British and Swiss
// notations plus keyword-prefixed totals.
var genericAmountRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:€|EUR|euro)\s*([0-9]{1,3}(?:\.[0-9]{3})*(?:,[0-9]{2})?)`),
	regexp.MustCompile(`(?i)([0-9]{1,3}(?:\.[0-9]{3})*(?:,[0-9]{2})?)\s*(?:€|EUR|euro)`),
	regexp.MustCompile(`(?i)(?:\$|USD|usd)\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)\s*(?:\$|USD|usd)`),
	regexp.MustCompile(`(?i)(?:£|GBP|gbp)\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)\s*(?:£|GBP|gbp)`),
	regexp.MustCompile(`(?i)(?:CHF|chf)\s*([0-9]{1,3}(?:'[0-9]{3})*(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)([0-9]{1,3}(?:'[0-9]{3})*(?:\.[0-9]{2})?)\s*(?:CHF|chf)`),
	regexp.MustCompile(`(?i)(?:total|gesamt|summe|amount|betrag|sum|grand\s*total|to\s*pay|zu\s*zahlen)[\s:]*([0-9]{1,3}(?:[.,][0-9]{3})*(?:[.,][0-9]{2})?)`),
	regexp.MustCompile(`(?i)([0-9]{1,3}(?:[.,][0-9]{3})*(?:[.,][0-9]{2})?)(?:\s*(?:€|EUR|USD|\$|£|GBP|CHF))`),
}

var nonAmountChars = regexp.MustCompile(`[^\d,.]`)

// parseAmount normalizes a matched amount string across locale
// conventions and returns its value. German style uses the comma as
// decimal separator, US style the period, Swiss style groups thousands
// with apostrophes. An ambiguous multi-period string is treated as
// having a decimal separator only when the final period group is
// exactly two digits.
func parseAmount(raw string) (float64, bool) {
	s := nonAmountChars.ReplaceAllString(raw, "")
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot >= 0 && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		if len(s)-lastDot == 3 {
			s = strings.ReplaceAll(s[:lastDot], ".", "") + s[lastDot:]
		} else {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractAmount(content string) *float64 {
	if content == "" {
		return nil
	}

	if p := patterns.Detect(content); p != nil {
		for _, re := range p.Amounts {
			m := re.FindStringSubmatch(content)
			if len(m) > 1 {
				if v, ok := parseAmount(m[1]); ok && v > 0 {
					return &v
				}
			}
		}
	}

	for _, re := range genericAmountRules {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if len(m) > 1 {
				if v, ok := parseAmount(m[1]); ok && v > 0 {
					return &v
				}
			}
		}
	}

	return nil
}
