package analysis

import (
	"math"
	"strings"
	"unicode/utf8"
)

var financialTerms = []string{"market", "stock", "price", "growth", "earnings", "revenue", "analyst"}

const (
	minConfidence = 0.1
	maxConfidence = 0.95
)

// Confidence scores how much the analysis can be trusted. Empty text yields
// exactly 0, outside the clamp, meaning there was nothing to judge. Text of
// only whitespace is still clamped like any other.
func Confidence(text string, scalar float64, assetDetected bool) float64 {
	if text == "" {
		return 0
	}

	base := math.Abs(scalar) * 0.5
	length := math.Min(1, float64(utf8.RuneCountInString(text))/2000) * 0.2
	var asset float64
	if assetDetected {
		asset = 0.2
	}
	terms := math.Min(0.2, float64(countPresent(strings.ToLower(text), financialTerms))*0.03)

	return math.Min(maxConfidence, math.Max(minConfidence, base+length+asset+terms))
}
