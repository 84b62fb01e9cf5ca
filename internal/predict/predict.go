// Package predict projects a sentiment scalar onto a naive price move.
package predict

import (
	"fmt"
	"math"
	"strconv"

	"market-sentiment/internal/types"
)

// volatility is the assumed daily move at full-strength sentiment.
const volatility = 0.02

// Project returns the projected price, percent change and confidence for the
// given scalar, price and horizon. All outputs are rounded to two decimals.
func Project(scalar, currentPrice float64, horizonHours int) (types.Projection, error) {
	if err := validate(scalar, currentPrice, horizonHours); err != nil {
		return types.Projection{}, err
	}

	impact := scalar * volatility * (float64(horizonHours) / 24)
	return types.Projection{
		PredictedPrice: round2(currentPrice * (1 + impact)),
		PercentChange:  round2(impact * 100),
		Confidence:     round2(math.Min(0.95, 0.6+math.Abs(scalar)*0.3)),
	}, nil
}

func validate(scalar, price float64, horizon int) error {
	switch {
	case math.IsNaN(scalar) || math.IsInf(scalar, 0) || scalar < -1 || scalar > 1:
		return fmt.Errorf("sentiment_score must be within [-1, 1]: %w", types.ErrValidation)
	case math.IsNaN(price) || math.IsInf(price, 0) || price <= 0:
		return fmt.Errorf("current_price must be a positive number: %w", types.ErrValidation)
	case horizon <= 0:
		return fmt.Errorf("horizon_hours must be positive: %w", types.ErrValidation)
	}
	return nil
}

// round2 rounds the exact binary value to two decimals, ties to even.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
