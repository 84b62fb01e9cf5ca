package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var insightKeywords = []string{
	"growth", "surge", "decline", "rise", "fall", "beat", "miss", "expect",
	"forecast", "projection", "estimate", "analyst", "market", "stock",
	"price", "earnings", "revenue", "profit", "loss", "high", "low",
	"record", "all-time", "quarter", "year", "percent", "%", "gdp",
	"inflation", "rate", "cut", "hike",
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

const (
	minInsightChars    = 20
	maxInsightChars    = 200
	minInsightKeywords = 2
)

// ExtractInsights returns up to maxCount sentences that mention at least two
// financial keywords, in text order.
func ExtractInsights(text string, maxCount int) []string {
	insights := []string{}
	if maxCount <= 0 || strings.TrimSpace(text) == "" {
		return insights
	}

	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) < minInsightChars {
			continue
		}
		if countPresent(strings.ToLower(s), insightKeywords) < minInsightKeywords {
			continue
		}

		s = whitespace.ReplaceAllString(s, " ")
		if r := []rune(s); len(r) > maxInsightChars {
			s = string(r[:maxInsightChars]) + "..."
		}
		insights = append(insights, s)
		if len(insights) >= maxCount {
			break
		}
	}
	return insights
}
