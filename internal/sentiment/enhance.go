package sentiment

import (
	"math"
	"strings"

	"market-sentiment/internal/types"
)

var interrogatives = []string{"how", "what", "will", "may", "might", "could"}

type intensifier struct {
	word       string
	multiplier float64
}

// intensifiers are checked in table order; only the first match applies.
var intensifiers = []intensifier{
	{"very", 1.2},
	{"extremely", 1.3},
	{"highly", 1.2},
	{"significantly", 1.25},
	{"substantially", 1.2},
	{"dramatically", 1.3},
	{"sharply", 1.25},
	{"slightly", 0.8},
	{"somewhat", 0.85},
	{"moderately", 0.9},
}

const (
	questionBiasScore = 0.55
	minEnhancedScore  = 0.05
	maxEnhancedScore  = 0.95
)

// Enhance adjusts a text judgment using question framing and intensifiers.
// The input judgment is not modified.
func Enhance(text string, j types.SentimentJudgment) types.SentimentJudgment {
	lower := strings.ToLower(text)
	label, score := j.Label, j.Score

	question := strings.Contains(text, "?") || containsAny(lower, interrogatives)
	if question && strings.Contains(lower, "market") && label == types.Neutral {
		label, score = types.Positive, questionBiasScore
	}

	for _, in := range intensifiers {
		if !strings.Contains(lower, in.word) {
			continue
		}
		if label != types.Neutral {
			score = math.Min(maxEnhancedScore, score*in.multiplier)
		}
		break
	}

	extras := j.Extras
	extras.OriginalScore = j.Score
	extras.Enhanced = true
	return types.SentimentJudgment{
		Label:  label,
		Score:  clamp(score, minEnhancedScore, maxEnhancedScore),
		Extras: extras,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
