package patterns

import "regexp"

// Pattern bundles the detection and extraction rules for one merchant
// category. All rule lists are ordered; extraction tries them first to
// last and stops at the first usable match.
type Pattern struct {
	Name          string
	Merchant      *regexp.Regexp
	Amounts       []*regexp.Regexp
	Dates         []*regexp.Regexp
	MerchantNames []*regexp.Regexp
	Auxiliary     map[string]*regexp.Regexp
	Category      string
}
