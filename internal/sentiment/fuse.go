package sentiment

import (
	"math"

	"market-sentiment/internal/types"
)

const (
	TextWeight  = 0.7
	ImageWeight = 0.3

	fusedThreshold = 0.15
	maxFusedScore  = 0.95
)

// Fuse combines image and text judgments into one signed scalar and a
// label/score derived from it.
func Fuse(image, text types.SentimentJudgment) types.FusedSentiment {
	scalar := text.Label.Sign()*text.Score*TextWeight + image.Label.Sign()*image.Score*ImageWeight
	scalar = clamp(scalar, -1, 1)

	label := fusedLabel(scalar)
	score := 0.5 + 0.1*(1-math.Abs(scalar))
	if label != types.Neutral {
		score = math.Min(maxFusedScore, 0.5+math.Abs(scalar)*0.5)
	}
	return types.FusedSentiment{Label: label, Score: score, Scalar: scalar}
}

// fusedLabel applies exclusive thresholds: exactly ±0.15 is neutral.
func fusedLabel(scalar float64) types.SentimentLabel {
	switch {
	case scalar > fusedThreshold:
		return types.Positive
	case scalar < -fusedThreshold:
		return types.Negative
	default:
		return types.Neutral
	}
}
