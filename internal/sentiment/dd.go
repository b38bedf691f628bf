package sentiment

import "strings"

// Flair values that mark a post as research regardless of body content.
var ddFlairs = []string{"dd", "due diligence", "research", "analysis", "fundamentals"}

// Keywords whose density marks long-form posts as analytical.
var ddKeywords = []string{
	"revenue", "earnings", "balance sheet", "cash flow", "valuation",
	"market cap", "p/e", "eps", "guidance", "catalyst", "thesis",
	"fundamentals", "financials", "quarterly", "annual report", "10-k",
	"10-q", "sec filing", "insider", "institutional", "short interest",
	"float", "dilution", "debt", "margins", "growth rate",
}

const ddMinBodyLength = 1000

// IsDDPost reports whether a post looks like due-diligence research rather
// than casual discussion. Flair is checked first; otherwise a long body
// with enough analytical keywords qualifies.
func IsDDPost(flair, body string) bool {
	flairLower := strings.ToLower(flair)
	for _, marker := range ddFlairs {
		if strings.Contains(flairLower, marker) {
			return true
		}
	}

	if len(body) < ddMinBodyLength {
		return false
	}
	bodyLower := strings.ToLower(body)
	hits := 0
	for _, keyword := range ddKeywords {
		if strings.Contains(bodyLower, keyword) {
			hits++
			if hits >= 4 {
				return true
			}
		}
	}
	return false
}
