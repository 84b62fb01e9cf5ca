// Package analysis derives market impact, confidence, key insights and a
// narrative summary from article text and a fused sentiment scalar.
package analysis

import (
	"strings"

	"market-sentiment/internal/types"
)

var (
	positiveIndicators = []string{
		"beat", "surge", "rise", "growth", "high", "record", "strong",
		"positive", "bullish", "gain", "rally", "outperform",
	}
	negativeIndicators = []string{
		"decline", "fall", "drop", "miss", "weak", "negative", "bearish",
		"loss", "concern", "risk", "worry", "downturn",
	}

	nearTermWords = []string{
		"today", "week", "immediate",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	}
	longTermWords = []string{"month", "quarter", "long-term", "sustained"}
)

var impactDescriptions = map[types.ImpactLevel]string{
	types.HighPositive:     "Strong positive sentiment suggests potential upward movement in the market",
	types.ModeratePositive: "Moderate positive sentiment indicates potential gains and bullish momentum",
	types.HighNegative:     "Strong negative sentiment indicates potential downward pressure and bearish conditions",
	types.ModerateNegative: "Moderate negative sentiment suggests potential decline and cautious market conditions",
	types.SlightlyPositive: "Mixed sentiment with slight positive bias, market may see modest gains",
	types.SlightlyNegative: "Mixed sentiment with slight negative bias, market may see modest decline",
	types.NeutralImpact:    "Balanced sentiment, market may remain stable with limited directional movement",
}

// AnalyzeImpact classifies the scalar, biased by indicator words, into an
// impact level and estimates the reaction horizon. Each indicator counts once
// regardless of how often it appears.
func AnalyzeImpact(text string, scalar float64) types.MarketImpact {
	lower := strings.ToLower(text)
	pos := countPresent(lower, positiveIndicators)
	neg := countPresent(lower, negativeIndicators)
	level := impactLevel(scalar, pos, neg)

	return types.MarketImpact{
		Level:          level,
		Description:    impactDescriptions[level],
		TimeHorizon:    timeHorizon(lower),
		PositiveCount:  pos,
		NegativeCount:  neg,
		SentimentScore: scalar,
	}
}

func impactLevel(scalar float64, pos, neg int) types.ImpactLevel {
	adjusted := scalar + float64(pos-neg)*0.1

	switch {
	case adjusted > 0.4 || (scalar > 0.3 && pos > neg+2):
		return types.HighPositive
	case adjusted > 0.15 || (scalar > 0.1 && pos > neg):
		return types.ModeratePositive
	case adjusted < -0.4 || (scalar < -0.3 && neg > pos+2):
		return types.HighNegative
	case adjusted < -0.15 || (scalar < -0.1 && neg > pos):
		return types.ModerateNegative
	case pos > neg:
		return types.SlightlyPositive
	case neg > pos:
		return types.SlightlyNegative
	default:
		return types.NeutralImpact
	}
}

func timeHorizon(lower string) types.TimeHorizon {
	switch {
	case countPresent(lower, nearTermWords) > 0:
		return types.Immediate
	case countPresent(lower, longTermWords) > 0:
		return types.LongTerm
	default:
		return types.ShortTerm
	}
}

func countPresent(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}
