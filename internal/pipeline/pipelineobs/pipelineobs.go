package pipelineobs

import (
	"context"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/models"
	"market-sentiment/internal/trace"
	"market-sentiment/internal/types"
)

type observablePipeline struct {
	pipeline interfaces.Pipeline
}

var _ interfaces.Pipeline = (*observablePipeline)(nil)

func Wrap(p interfaces.Pipeline) interfaces.Pipeline {
	return &observablePipeline{pipeline: p}
}

func (op *observablePipeline) AnalyzeImage(ctx context.Context, req types.ImageRequest) (*types.ImageAnalysis, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.AnalyzeImage")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting image analysis",
		"bytes", len(req.Image),
		"symbol", req.Symbol,
	)

	res, err := op.pipeline.AnalyzeImage(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Image analysis failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Image analysis completed",
		"analysis_id", res.AnalysisID,
		"asset", res.DetectedAsset,
		"combined", res.Combined,
		"confidence", res.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (op *observablePipeline) AnalyzeURL(ctx context.Context, req types.URLRequest) (*types.ArticleAnalysis, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.AnalyzeURL")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting article analysis",
		"url", req.URL,
		"symbol", req.Symbol,
	)

	res, err := op.pipeline.AnalyzeURL(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Article analysis failed", err,
			"url", req.URL,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Article analysis completed",
		"analysis_id", res.AnalysisID,
		"asset", res.DetectedAsset,
		"combined", res.Sentiment.Combined.Label,
		"impact", res.MarketImpact.Level,
		"confidence", res.Sentiment.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (op *observablePipeline) Predict(ctx context.Context, req types.PredictRequest) (*models.MarketPrediction, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Predict")
	defer span.End()

	res, err := op.pipeline.Predict(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Price projection failed", err,
			"asset_id", req.AssetID,
			"current_price", req.CurrentPrice,
		)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Price projection stored",
		"prediction_id", res.ID,
		"asset_id", res.AssetID,
	)
	return res, nil
}
