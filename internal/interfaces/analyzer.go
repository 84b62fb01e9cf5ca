package interfaces

import (
	"context"

	"market-sentiment/internal/models"
	"market-sentiment/internal/types"
)

// Analyzer runs the sentiment pipeline for one inbound request.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, req types.ImageRequest) (*types.ImageAnalysis, error)
	AnalyzeURL(ctx context.Context, req types.URLRequest) (*types.ArticleAnalysis, error)
}

// Predictor projects a price for a stored asset and records the result.
type Predictor interface {
	Predict(ctx context.Context, req types.PredictRequest) (*models.MarketPrediction, error)
}

type Pipeline interface {
	Analyzer
	Predictor
}
