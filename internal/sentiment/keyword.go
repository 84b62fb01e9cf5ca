// Package sentiment turns text and image evidence into sentiment judgments
// and fuses them into a single signed scalar.
package sentiment

import (
	"math"
	"strings"

	"market-sentiment/internal/types"
)

type weightedTerm struct {
	term   string
	weight float64
}

var positiveTerms = []weightedTerm{
	{"surge", 0.9}, {"soar", 0.9}, {"rally", 0.9}, {"jump", 0.85}, {"spike", 0.85},
	{"record high", 0.95}, {"all-time high", 0.95}, {"new high", 0.9}, {"peak", 0.85},
	{"beat", 0.8}, {"exceed", 0.8}, {"outperform", 0.85}, {"surpass", 0.8},
	{"strong", 0.75}, {"robust", 0.8}, {"solid", 0.7}, {"healthy", 0.7},
	{"growth", 0.7}, {"expand", 0.7}, {"rise", 0.65}, {"increase", 0.65},
	{"bullish", 0.9}, {"optimistic", 0.8}, {"positive", 0.75}, {"favorable", 0.75},
	{"gain", 0.7}, {"profit", 0.7}, {"earnings beat", 0.85}, {"revenue growth", 0.75},
	{"momentum", 0.7}, {"uptrend", 0.75}, {"recovery", 0.7}, {"rebound", 0.75},
	{"accelerate", 0.75}, {"boost", 0.7}, {"improve", 0.65}, {"strengthen", 0.7},
}

var negativeTerms = []weightedTerm{
	{"plunge", 0.9}, {"crash", 0.95}, {"collapse", 0.95}, {"tumble", 0.85}, {"slump", 0.85},
	{"record low", 0.95}, {"all-time low", 0.95}, {"new low", 0.9}, {"bottom", 0.85},
	{"miss", 0.8}, {"disappoint", 0.8}, {"underperform", 0.85}, {"fall short", 0.8},
	{"weak", 0.75}, {"poor", 0.8}, {"decline", 0.7}, {"drop", 0.7}, {"fall", 0.65},
	{"bearish", 0.9}, {"pessimistic", 0.8}, {"negative", 0.75}, {"unfavorable", 0.75},
	{"loss", 0.7}, {"deficit", 0.75}, {"earnings miss", 0.85}, {"revenue decline", 0.75},
	{"downtrend", 0.75}, {"recession", 0.85}, {"crisis", 0.9}, {"concern", 0.7},
	{"worry", 0.7}, {"risk", 0.65}, {"uncertainty", 0.7}, {"volatility", 0.65},
	{"slowdown", 0.75}, {"contraction", 0.8}, {"deteriorate", 0.75}, {"weaken", 0.7},
}

var neutralTerms = []weightedTerm{
	{"stable", 0.5}, {"flat", 0.5}, {"unchanged", 0.5}, {"maintain", 0.5},
	{"mixed", 0.5}, {"varied", 0.5}, {"uncertain", 0.5},
}

const (
	occurrenceCap  = 3
	wordsPerUnit   = 200.0
	netThreshold   = 0.3
	maxTextScore   = 0.95
	neutralHitStep = 0.02
	maxNeutralHits = 10
)

// KeywordScorer scores text against weighted keyword tables. It is always
// available and has no state.
type KeywordScorer struct{}

func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

func (KeywordScorer) Score(text string) types.SentimentJudgment {
	if strings.TrimSpace(text) == "" {
		return neutralJudgment(types.MethodKeyword)
	}
	lower := strings.ToLower(text)

	posMass, posHits := accumulate(lower, positiveTerms)
	negMass, negHits := accumulate(lower, negativeTerms)
	_, neuHits := accumulate(lower, neutralTerms)

	norm := math.Max(1, float64(len(strings.Fields(text)))/wordsPerUnit)
	net := posMass/norm - negMass/norm

	j := types.SentimentJudgment{
		Extras: types.JudgmentExtras{
			Method:       types.MethodKeyword,
			PositiveHits: posHits,
			NegativeHits: negHits,
			NeutralHits:  neuHits,
			NetSentiment: net,
		},
	}
	switch {
	case net > netThreshold:
		j.Label = types.Positive
		j.Score = math.Min(maxTextScore, 0.5+net*0.5)
	case net < -netThreshold:
		j.Label = types.Negative
		j.Score = math.Min(maxTextScore, 0.5+math.Abs(net)*0.5)
	default:
		j.Label = types.Neutral
		j.Score = 0.5
		if hits := posHits + negHits; hits > 0 {
			j.Score = 0.5 + neutralHitStep*float64(min(hits, maxNeutralHits))
		}
	}
	return j
}

// accumulate returns the capped weighted mass and the raw occurrence count.
func accumulate(lower string, terms []weightedTerm) (float64, int) {
	var mass float64
	var hits int
	for _, t := range terms {
		n := strings.Count(lower, t.term)
		if n == 0 {
			continue
		}
		mass += t.weight * float64(min(n, occurrenceCap))
		hits += n
	}
	return mass, hits
}

func neutralJudgment(m types.Method) types.SentimentJudgment {
	return types.SentimentJudgment{
		Label:  types.Neutral,
		Score:  0.5,
		Extras: types.JudgmentExtras{Method: m},
	}
}
