package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"kassa/internal/constants"
	"kassa/internal/patterns"
)

// knownMerchants maps sender-address domains to canonical display
// names. Checked before the generic cleanup heuristics.
var knownMerchants = map[string]string{
	// E-commerce
	"amazon":   "Amazon",
	"ebay":     "eBay",
	"zalando":  "Zalando",
	"otto":     "OTTO",
	"aboutyou": "About You",
	"hm":       "H&M",
	"zara":     "Zara",
	"ca":       "C&A",
	"bonprix":  "Bonprix",

	// Payment services
	"paypal":    "PayPal",
	"stripe":    "Stripe",
	"klarna":    "Klarna",
	"paydirekt": "Paydirekt",

	// Subscriptions and digital services
	"spotify":   "Spotify",
	"netflix":   "Netflix",
	"apple":     "Apple",
	"google":    "Google",
	"microsoft": "Microsoft",
	"adobe":     "Adobe",
	"dropbox":   "Dropbox",

	// Supermarkets
	"rewe":     "REWE",
	"edeka":    "EDEKA",
	"aldi":     "ALDI",
	"lidl":     "Lidl",
	"kaufland": "Kaufland",
	"penny":    "Penny",
	"netto":    "Netto",
	"real":     "Real",

	// Drugstores and pharmacies
	"dm":        "dm-drogerie markt",
	"rossmann":  "Rossmann",
	"mueller":   "Müller",
	"docmorris": "DocMorris",
	"aponet":    "Aponet",

	// Electronics
	"saturn":     "Saturn",
	"mediamarkt": "MediaMarkt",
	"conrad":     "Conrad",
	"alternate":  "Alternate",
	"cyberport":  "Cyberport",

	// Gas stations
	"shell": "Shell",
	"esso":  "Esso",
	"aral":  "Aral",
	"bp":    "BP",
	"total": "Total",
	"star":  "Star",

	// Food delivery and restaurants
	"lieferando": "Lieferando",
	"ubereats":   "Uber Eats",
	"deliveroo":  "Deliveroo",
	"foodora":    "Foodora",
	"mcdonalds":  "McDonald's",
	"burgerking": "Burger King",
	"kfc":        "KFC",
	"pizzahut":   "Pizza Hut",
	"dominos":    "Domino's",

	// Transportation
	"uber":      "Uber",
	"flixbus":   "FlixBus",
	"bahn":      "Deutsche Bahn",
	"lufthansa": "Lufthansa",
	"ryanair":   "Ryanair",

	// Telecommunications
	"telekom":  "Deutsche Telekom",
	"vodafone": "Vodafone",
	"o2":       "O2",
	"1und1":    "1&1",

	// Insurance and banking
	"allianz":     "Allianz",
	"axa":         "AXA",
	"sparkasse":   "Sparkasse",
	"commerzbank": "Commerzbank",
	"dkb":         "DKB",
	"ing":         "ING",
}

var (
	emailDomainRe = regexp.MustCompile(`@([^.]+)\.([a-zA-Z]{2,})`)
	boilerplateRe = regexp.MustCompile(`(?i)noreply|no-reply|support|info|service|newsletter|marketing`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

var legalSuffixes = []string{"gmbh", "ag", "kg", "ek", "inc", "llc", "ltd", "mbh", "co", "corp", "corporation"}

var knownAbbreviations = map[string]bool{
	"dm": true, "kfc": true, "h&m": true, "c&a": true, "bp": true,
	"usa": true, "uk": true, "eu": true, "gmbh": true, "ag": true, "kg": true,
}

var contentMerchantRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)von\s+([A-Za-zÄÖÜäöüß0-9\s&.-]+?)(?:\s|$|,|\.|!|\?)`),
	regexp.MustCompile(`(?i)from\s+([A-Za-z0-9\s&.-]+?)(?:\s|$|,|\.|!|\?)`),
	regexp.MustCompile(`(?i)(?:store|shop|geschäft|laden|filiale)[\s:]+([A-Za-zÄÖÜäöüß0-9\s&.-]+?)(?:\s|$|,|\.|!|\?)`),
	regexp.MustCompile(`(?i)([A-ZÄÖÜ][a-zA-ZÄÖÜäöüß0-9\s&.-]{2,})\s+(?:GmbH|AG|Inc|LLC|Ltd|KG|e\.K\.|mbH)`),
	regexp.MustCompile(`(?m)^([A-ZÄÖÜ][A-ZÄÖÜ\s&.-]{2,})$`),
	regexp.MustCompile(`(?i)(?:Rechnung|Invoice|Receipt|Beleg)\s+(?:von|from)\s+([A-Za-zÄÖÜäöüß0-9\s&.-]+)`),
	regexp.MustCompile(`(?i)(?:Ihre|Your)\s+(?:Bestellung|Order)\s+(?:bei|at|from)\s+([A-Za-zÄÖÜäöüß0-9\s&.-]+)`),
}

var invalidMerchantRules = []*regexp.Regexp{
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[^a-zA-ZÄÖÜäöüß]+$`),
	regexp.MustCompile(`(?i)^(der|die|das|und|oder|the|and|or|a|an|in|on|at|to|for|with|from)$`),
	regexp.MustCompile(`(?i)^(email|mail|message|nachricht|betreff|subject|datum|date|uhr|time)$`),
	regexp.MustCompile(`(?i)^(http|https|www|\.com|\.de|\.org)$`),
}

func extractMerchant(content, fromEmail string) string {
	if content == "" && fromEmail == "" {
		return constants.DefaultMerchant
	}

	if p := patterns.Detect(content); p != nil {
		for _, re := range p.MerchantNames {
			m := re.FindStringSubmatch(content)
			if len(m) > 1 {
				if name := cleanMerchantName(m[1]); name != constants.DefaultMerchant {
					return name
				}
			}
		}
	}

	if name := merchantFromEmail(fromEmail); name != "" && name != constants.DefaultMerchant {
		return name
	}

	if name := merchantFromContent(content); name != "" {
		return name
	}

	return constants.DefaultMerchant
}

func merchantFromEmail(fromEmail string) string {
	if fromEmail == "" {
		return ""
	}

	m := emailDomainRe.FindStringSubmatch(fromEmail)
	if m == nil {
		return cleanMerchantName(fromEmail)
	}

	domain := strings.ToLower(m[1])
	if name, ok := knownMerchants[domain]; ok {
		return name
	}

	return cleanMerchantName(m[1])
}

func merchantFromContent(content string) string {
	if content == "" {
		return ""
	}

	for _, re := range contentMerchantRules {
		m := re.FindStringSubmatch(content)
		if len(m) > 1 {
			candidate := strings.TrimSpace(m[1])
			length := utf8.RuneCountInString(candidate)
			if length > 2 && length < 100 && isValidMerchantName(candidate) {
				return cleanMerchantName(candidate)
			}
		}
	}

	return ""
}

func isValidMerchantName(merchant string) bool {
	if strings.TrimSpace(merchant) == "" {
		return false
	}

	for _, re := range invalidMerchantRules {
		if re.MatchString(merchant) {
			return false
		}
	}
	return true
}

// cleanMerchantName strips email boilerplate and legal-entity suffixes,
// then title-cases the remainder unless it is an all-caps brand or a
// known abbreviation.
func cleanMerchantName(raw string) string {
	if raw == "" {
		return constants.DefaultMerchant
	}

	merchant := strings.TrimSpace(raw)
	merchant = boilerplateRe.ReplaceAllString(merchant, "")
	merchant = strings.NewReplacer("@", "", ".", "", "-", " ", "_", " ").Replace(merchant)
	merchant = whitespaceRe.ReplaceAllString(strings.TrimSpace(merchant), " ")

	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(strings.ToLower(merchant), " "+suffix) {
			merchant = strings.TrimSpace(merchant[:len(merchant)-len(suffix)-1])
		}
	}

	if merchant != "" && !isAllUpperCase(merchant) {
		words := strings.Fields(merchant)
		for i, word := range words {
			switch {
			case knownAbbreviations[strings.ToLower(word)]:
				words[i] = strings.ToUpper(word)
			case utf8.RuneCountInString(word) > 1:
				runes := []rune(strings.ToLower(word))
				runes[0] = unicode.ToUpper(runes[0])
				words[i] = string(runes)
			default:
				words[i] = strings.ToUpper(word)
			}
		}
		merchant = strings.Join(words, " ")
	}

	if utf8.RuneCountInString(strings.TrimSpace(merchant)) < 2 {
		return constants.DefaultMerchant
	}

	return merchant
}

func isAllUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
