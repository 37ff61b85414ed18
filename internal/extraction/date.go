package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"kassa/internal/patterns"
)

type dateLayout int

const (
	numericDayFirst dateLayout = iota
	dayMonthNameYear
	monthNameDayYear
)

type dateRule struct {
	re     *regexp.Regexp
	layout dateLayout
}

var genericDateRules = []dateRule{
	{regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})`), numericDayFirst},
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), numericDayFirst},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})`), numericDayFirst},
	{regexp.MustCompile(`(\d{1,2})'(\d{1,2})'(\d{2,4})`), numericDayFirst},
	{regexp.MustCompile(`(?i)(\d{1,2})\.?\s+(Januar|Februar|März|April|Mai|Juni|Juli|August|September|Oktober|November|Dezember|Jan|Feb|Mär|Apr|Jun|Jul|Aug|Sep|Okt|Nov|Dez)\s+(\d{4})`), dayMonthNameYear},
	{regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(\d{4})`), monthNameDayYear},
	{regexp.MustCompile(`(?i)(\d{1,2})\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\s+(\d{4})`), dayMonthNameYear},
}

var monthNames = map[string]time.Month{
	"januar": time.January, "jan": time.January, "january": time.January, "janvier": time.January,
	"februar": time.February, "feb": time.February, "february": time.February, "février": time.February,
	"märz": time.March, "mär": time.March, "march": time.March, "mar": time.March, "mars": time.March,
	"april": time.April, "apr": time.April, "avril": time.April,
	"mai": time.May, "may": time.May,
	"juni": time.June, "jun": time.June, "june": time.June, "juin": time.June,
	"juli": time.July, "jul": time.July, "july": time.July, "juillet": time.July,
	"august": time.August, "aug": time.August, "août": time.August,
	"september": time.September, "sep": time.September, "septembre": time.September,
	"oktober": time.October, "okt": time.October, "october": time.October, "oct": time.October, "octobre": time.October,
	"november": time.November, "nov": time.November, "novembre": time.November,
	"dezember": time.December, "dez": time.December, "december": time.December, "dec": time.December, "décembre": time.December,
}

// validDate bounds the year to (1900, currentYear+1] and checks the day
// against the month's actual length.
func validDate(year int, month time.Month, day int) bool {
	if year <= 1900 || year > time.Now().Year()+1 {
		return false
	}
	if month < time.January || month > time.December {
		return false
	}
	if day < 1 || day > daysInMonth(year, month) {
		return false
	}
	return true
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (r dateRule) parse(m []string) (time.Time, bool) {
	if len(m) < 4 {
		return time.Time{}, false
	}

	switch r.layout {
	case numericDayFirst:
		return parseNumericDate(m[1], m[2], m[3])
	case dayMonthNameYear:
		return parseTextualDate(m[1], m[2], m[3])
	case monthNameDayYear:
		return parseTextualDate(m[2], m[1], m[3])
	}
	return time.Time{}, false
}

// parseNumericDate decides whether the first component is the day or
// the year. A value above 31 or a four digit group means year first
// (ISO order), anything else is day first. Two digit years are pinned
// to the 2000s.
func parseNumericDate(g1, g2, g3 string) (time.Time, bool) {
	first, err1 := strconv.Atoi(g1)
	second, err2 := strconv.Atoi(g2)
	third, err3 := strconv.Atoi(g3)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	if first > 31 || len(g1) == 4 {
		month := time.Month(second)
		if validDate(first, month, third) {
			return time.Date(first, month, third, 0, 0, 0, 0, time.UTC), true
		}
		return time.Time{}, false
	}

	year := third
	if year < 100 {
		year += 2000
	}
	month := time.Month(second)
	if validDate(year, month, first) {
		return time.Date(year, month, first, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseTextualDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	month, ok := monthNames[strings.ToLower(monthStr)]
	if !ok {
		return time.Time{}, false
	}

	day, err1 := strconv.Atoi(dayStr)
	year, err2 := strconv.Atoi(yearStr)
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}

	if validDate(year, month, day) {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// parseDateString runs the generic rules over a single captured
// candidate, as produced by a merchant pattern's date rule.
func parseDateString(s string) (time.Time, bool) {
	for _, rule := range genericDateRules {
		if m := rule.re.FindStringSubmatch(s); m != nil {
			if d, ok := rule.parse(m); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

func extractDate(content string) *time.Time {
	if content == "" {
		return nil
	}

	if p := patterns.Detect(content); p != nil {
		for _, re := range p.Dates {
			m := re.FindStringSubmatch(content)
			if len(m) > 1 {
				if d, ok := parseDateString(m[1]); ok {
					return &d
				}
			}
		}
	}

	for _, rule := range genericDateRules {
		if m := rule.re.FindStringSubmatch(content); m != nil {
			if d, ok := rule.parse(m); ok {
				return &d
			}
		}
	}

	return nil
}
