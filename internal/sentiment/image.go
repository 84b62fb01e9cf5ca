package sentiment

import (
	"math"

	"market-sentiment/internal/types"
)

const (
	imageMeanThreshold = 0.1
	maxImageScore      = 0.9
	neutralImageScore  = 0.6
)

// ScoreImage judges an image from the mean of its feature vector.
// An empty vector is neutral.
func ScoreImage(features []float64) types.SentimentJudgment {
	var mean float64
	if len(features) > 0 {
		var sum float64
		for _, f := range features {
			sum += f
		}
		mean = sum / float64(len(features))
	}

	switch {
	case mean > imageMeanThreshold:
		return types.SentimentJudgment{Label: types.Positive, Score: math.Min(maxImageScore, 0.5+math.Abs(mean)*0.5)}
	case mean < -imageMeanThreshold:
		return types.SentimentJudgment{Label: types.Negative, Score: math.Min(maxImageScore, 0.5+math.Abs(mean)*0.5)}
	default:
		return types.SentimentJudgment{Label: types.Neutral, Score: neutralImageScore}
	}
}

// SynthesisReason says why an image judgment has to be derived from text.
type SynthesisReason int

const (
	// ImageFailed: an image was present but could not be scored.
	ImageFailed SynthesisReason = iota
	// ImageAbsent: there was no image at all.
	ImageAbsent
)

func (r SynthesisReason) factor() float64 {
	if r == ImageFailed {
		return 0.8
	}
	return 0.7
}

func (r SynthesisReason) String() string {
	if r == ImageFailed {
		return "image_failed"
	}
	return "image_absent"
}

// SynthesizeImage derives an image judgment aligned to the text judgment at
// reduced confidence.
func SynthesizeImage(text types.SentimentJudgment, reason SynthesisReason) types.SentimentJudgment {
	return types.SentimentJudgment{
		Label:  text.Label,
		Score:  clamp(text.Score*reason.factor(), 0, 1),
		Extras: types.JudgmentExtras{Synthesized: true},
	}
}
