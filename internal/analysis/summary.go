package analysis

import (
	"fmt"
	"strings"

	"market-sentiment/internal/types"
)

// Summarize renders a one-paragraph narrative for the analysis.
func Summarize(text, image, combined types.SentimentLabel, confidence float64) string {
	pct := confidence * 100
	strong := confidence > 0.7

	var b strings.Builder
	switch combined {
	case types.Positive:
		if strong {
			fmt.Fprintf(&b, "Strong positive sentiment detected with %.1f%% confidence. Both text and visual analysis indicate bullish market conditions.", pct)
		} else {
			fmt.Fprintf(&b, "Moderate positive sentiment detected with %.1f%% confidence. The analysis suggests favorable market conditions.", pct)
		}
	case types.Negative:
		if strong {
			fmt.Fprintf(&b, "Strong negative sentiment detected with %.1f%% confidence. Both text and visual analysis indicate bearish market conditions.", pct)
		} else {
			fmt.Fprintf(&b, "Moderate negative sentiment detected with %.1f%% confidence. The analysis suggests cautious market conditions.", pct)
		}
	default:
		fmt.Fprintf(&b, "Neutral sentiment detected with %.1f%% confidence. Mixed signals suggest market stability with no strong directional bias.", pct)
	}

	if text.Lower() == image.Lower() {
		b.WriteString(" Text and visual sentiment are aligned, increasing reliability.")
	} else {
		fmt.Fprintf(&b, " Note: Text sentiment is %s while visual sentiment is %s, showing some divergence.", text.Lower(), image.Lower())
	}
	return b.String()
}
