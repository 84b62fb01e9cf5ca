package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/types"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name    string
		scalar  float64
		price   float64
		horizon int
		want    types.Projection
	}{
		{"reference", 0.5, 100, 24, types.Projection{PredictedPrice: 101, PercentChange: 1, Confidence: 0.75}},
		{"negative half day", -0.6, 175, 12, types.Projection{PredictedPrice: 173.95, PercentChange: -0.6, Confidence: 0.78}},
		{"neutral", 0, 250, 24, types.Projection{PredictedPrice: 250, PercentChange: 0, Confidence: 0.6}},
		{"multi day", 1, 45000, 72, types.Projection{PredictedPrice: 47700, PercentChange: 6, Confidence: 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.scalar, tt.price, tt.horizon)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.PredictedPrice, got.PredictedPrice, 1e-9)
			assert.InDelta(t, tt.want.PercentChange, got.PercentChange, 1e-9)
			assert.InDelta(t, tt.want.Confidence, got.Confidence, 1e-9)
		})
	}
}

func TestProjectIdempotent(t *testing.T) {
	a, err := Project(0.37, 1234.56, 36)
	require.NoError(t, err)
	b, err := Project(0.37, 1234.56, 36)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProjectRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		scalar  float64
		price   float64
		horizon int
	}{
		{"scalar above range", 1.5, 100, 24},
		{"scalar nan", math.NaN(), 100, 24},
		{"zero price", 0.5, 0, 24},
		{"negative price", 0.5, -3, 24},
		{"infinite price", 0.5, math.Inf(1), 24},
		{"zero horizon", 0.5, 100, 0},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.scalar, tt.price, tt.horizon)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestRound2TiesToEven(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.12},
		{0.375, 0.38},
		{-0.125, -0.12},
		{2.675, 2.67},
		{1.005, 1},
		{173.955, 173.96},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}
