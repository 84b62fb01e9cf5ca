package interfaces

import (
	"context"

	"market-sentiment/internal/models"
	"market-sentiment/internal/types"
)

// Store is the append-only persistence contract of the pipeline.
type Store interface {
	// SaveAnalysis finds or creates the asset and inserts the record atomically.
	SaveAnalysis(ctx context.Context, identity types.AssetIdentity, rec *models.SentimentAnalysis) (*models.Asset, error)
	SavePrediction(ctx context.Context, rec *models.MarketPrediction) error
	GetAsset(ctx context.Context, id uint) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]models.Asset, error)
	ListAnalyses(ctx context.Context, assetID uint) ([]models.SentimentAnalysis, error)
	ListPredictions(ctx context.Context, assetID uint) ([]models.MarketPrediction, error)
	Dashboard(ctx context.Context, recent int) (*models.DashboardStats, error)
}
