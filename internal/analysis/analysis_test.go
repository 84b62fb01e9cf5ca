package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"market-sentiment/internal/types"
)

func TestAnalyzeImpact(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		scalar  float64
		want    types.ImpactLevel
		wantPos int
		wantNeg int
	}{
		{"high positive", "Earnings beat and strong growth pushed shares to a record high", 0.5, types.HighPositive, 5, 0},
		{"moderate positive", "The committee met", 0.2, types.ModeratePositive, 0, 0},
		{"high negative", "Outlook remains weak", -0.5, types.HighNegative, 0, 1},
		{"moderate negative", "The committee met", -0.2, types.ModerateNegative, 0, 0},
		{"slightly negative", "risk and concern but a gain", 0.05, types.SlightlyNegative, 1, 2},
		{"slightly positive", "a small gain", 0, types.SlightlyPositive, 1, 0},
		{"neutral", "", 0, types.NeutralImpact, 0, 0},
		{"indicator counted once", "gain gain gain gain", 0, types.SlightlyPositive, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeImpact(tt.text, tt.scalar)
			assert.Equal(t, tt.want, got.Level)
			assert.Equal(t, tt.wantPos, got.PositiveCount)
			assert.Equal(t, tt.wantNeg, got.NegativeCount)
			assert.Equal(t, impactDescriptions[tt.want], got.Description)
			assert.Equal(t, tt.scalar, got.SentimentScore)
		})
	}
}

func TestTimeHorizon(t *testing.T) {
	assert.Equal(t, types.Immediate, AnalyzeImpact("Shares rallied on Friday", 0).TimeHorizon)
	assert.Equal(t, types.LongTerm, AnalyzeImpact("Sustained gains over the quarter", 0).TimeHorizon)
	assert.Equal(t, types.Immediate, AnalyzeImpact("this week and next month", 0).TimeHorizon)
	assert.Equal(t, types.ShortTerm, AnalyzeImpact("no timing given", 0).TimeHorizon)
}

func TestConfidence(t *testing.T) {
	t.Run("empty text is exactly zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Confidence("", 0.9, true))
	})

	t.Run("whitespace is clamped like any text", func(t *testing.T) {
		assert.Equal(t, 0.1, Confidence("  \t", 0, false))
		assert.InDelta(t, 0.6503, Confidence("  \t", 0.9, true), 1e-9)
	})

	t.Run("factors", func(t *testing.T) {
		assert.InDelta(t, 0.5418, Confidence("Stock market price", 0.5, true), 1e-9)
		assert.InDelta(t, 0.5418, Confidence("Stock market price", -0.5, true), 1e-9)
	})

	t.Run("clamped", func(t *testing.T) {
		assert.Equal(t, 0.1, Confidence("hello", 0, false))
		long := strings.Repeat("market stock price growth earnings revenue analyst ", 50)
		assert.Equal(t, 0.95, Confidence(long, 1, true))
	})

	t.Run("monotonic in magnitude", func(t *testing.T) {
		text := "Analysts expect earnings growth to lift the stock price"
		for _, detected := range []bool{true, false} {
			prev := -1.0
			for i := 0; i <= 20; i++ {
				c := Confidence(text, float64(i)/20, detected)
				assert.GreaterOrEqual(t, c, prev)
				prev = c
			}
		}
	})
}

func TestExtractInsights(t *testing.T) {
	text := "Revenue growth beat analyst estimates this quarter. Nice day! " +
		"The stock price hit a record high as markets rallied. Short one. " +
		"Weather was nice and sunny all afternoon long."

	got := ExtractInsights(text, 5)
	assert.Equal(t, []string{
		"Revenue growth beat analyst estimates this quarter",
		"The stock price hit a record high as markets rallied",
	}, got)

	assert.Len(t, ExtractInsights(text, 1), 1)
	assert.Empty(t, ExtractInsights(text, 0))
	assert.NotNil(t, ExtractInsights("", 5))
}

func TestExtractInsightsFormatting(t *testing.T) {
	got := ExtractInsights("Revenue   growth\n\tbeat expectations handily", 5)
	assert.Equal(t, []string{"Revenue growth beat expectations handily"}, got)

	long := "market stock " + strings.Repeat("x", 250)
	got = ExtractInsights(long, 5)
	if assert.Len(t, got, 1) {
		assert.Equal(t, 203, utf8.RuneCountInString(got[0]))
		assert.True(t, strings.HasSuffix(got[0], "..."))
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name                  string
		text, image, combined types.SentimentLabel
		confidence            float64
		want                  string
	}{
		{
			"strong aligned",
			types.Positive, types.Positive, types.Positive, 0.8,
			"Strong positive sentiment detected with 80.0% confidence. Both text and visual analysis indicate bullish market conditions. Text and visual sentiment are aligned, increasing reliability.",
		},
		{
			"moderate divergent",
			types.Negative, types.Neutral, types.Negative, 0.6,
			"Moderate negative sentiment detected with 60.0% confidence. The analysis suggests cautious market conditions. Note: Text sentiment is negative while visual sentiment is neutral, showing some divergence.",
		},
		{
			"boundary is moderate",
			types.Positive, types.Positive, types.Positive, 0.7,
			"Moderate positive sentiment detected with 70.0% confidence. The analysis suggests favorable market conditions. Text and visual sentiment are aligned, increasing reliability.",
		},
		{
			"neutral",
			types.Neutral, types.Neutral, types.Neutral, 0.55,
			"Neutral sentiment detected with 55.0% confidence. Mixed signals suggest market stability with no strong directional bias. Text and visual sentiment are aligned, increasing reliability.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.text, tt.image, tt.combined, tt.confidence))
		})
	}
}
