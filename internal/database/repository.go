package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/models"
	"market-sentiment/internal/types"
)

// Repository is the gorm-backed interfaces.Store.
type Repository struct {
	db *gorm.DB
}

var _ interfaces.Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveAnalysis finds or creates the asset for identity and inserts rec in
// the same transaction. Nothing is written if either step fails.
func (r *Repository) SaveAnalysis(ctx context.Context, identity types.AssetIdentity, rec *models.SentimentAnalysis) (*models.Asset, error) {
	symbol := strings.TrimSpace(identity.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: asset symbol is required", types.ErrValidation)
	}

	var asset models.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where(models.Asset{Symbol: symbol}).
			Attrs(models.Asset{Name: identity.Name, AssetType: string(identity.Type)}).
			FirstOrCreate(&asset).Error
		if err != nil {
			return fmt.Errorf("failed to resolve asset %s: %w", symbol, err)
		}

		rec.AssetID = asset.ID
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return fmt.Errorf("failed to insert analysis: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// SavePrediction inserts rec. The referenced asset must exist.
func (r *Repository) SavePrediction(ctx context.Context, rec *models.MarketPrediction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, rec.AssetID).Error; err != nil {
			return notFound(err, rec.AssetID)
		}
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return fmt.Errorf("failed to insert prediction: %w", err)
		}
		return nil
	})
}

func (r *Repository) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &asset, nil
}

func (r *Repository) ListAssets(ctx context.Context) ([]models.Asset, error) {
	assets := []models.Asset{}
	if err := r.db.WithContext(ctx).Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// ListAnalyses returns the analyses of one asset, newest first.
func (r *Repository) ListAnalyses(ctx context.Context, assetID uint) ([]models.SentimentAnalysis, error) {
	rows := []models.SentimentAnalysis{}
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPredictions returns the predictions of one asset, newest first.
func (r *Repository) ListPredictions(ctx context.Context, assetID uint) ([]models.MarketPrediction, error) {
	rows := []models.MarketPrediction{}
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Dashboard returns table counts and the most recent analyses.
func (r *Repository) Dashboard(ctx context.Context, recent int) (*models.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.DashboardStats{RecentAnalyses: []models.RecentAnalysis{}}

	if err := db.Model(&models.Asset{}).Count(&stats.TotalAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SentimentAnalysis{}).Count(&stats.TotalAnalyses).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.MarketPrediction{}).Count(&stats.TotalPredictions).Error; err != nil {
		return nil, err
	}

	if recent <= 0 {
		return stats, nil
	}

	var rows []models.SentimentAnalysis
	err := db.Preload("Asset").
		Order("created_at DESC, id DESC").
		Limit(recent).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.RecentAnalyses = append(stats.RecentAnalyses, models.RecentAnalysis{
			ID:          row.ID,
			AssetSymbol: row.Asset.Symbol,
			Sentiment:   row.CombinedSentiment,
			Confidence:  row.Confidence,
			CreatedAt:   row.CreatedAt,
		})
	}
	return stats, nil
}

func notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("asset %d: %w", id, types.ErrNotFound)
	}
	return err
}
