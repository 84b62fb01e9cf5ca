package database

import (
	"context"

	"gorm.io/gorm"

	"market-sentiment/internal/models"
)

// SeedDemo inserts three demo assets with one analysis and one prediction
// each. It does nothing when any asset already exists and reports whether
// rows were written.
func SeedDemo(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Asset{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	btc := models.Asset{Symbol: "BTC-USD", Name: "Bitcoin", AssetType: "crypto"}
	tsla := models.Asset{Symbol: "TSLA", Name: "Tesla Inc", AssetType: "stock"}
	aapl := models.Asset{Symbol: "AAPL", Name: "Apple Inc", AssetType: "stock"}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range []*models.Asset{&btc, &tsla, &aapl} {
			if err := tx.Create(a).Error; err != nil {
				return err
			}
		}

		analyses := []models.SentimentAnalysis{
			{
				AssetID:           btc.ID,
				SourceURL:         "https://twitter.com/example/status/123",
				ExtractedText:     "Bitcoin reaches new all-time high! Bullish momentum continues.",
				ImageSentiment:    "positive",
				TextSentiment:     "positive",
				CombinedSentiment: "positive",
				Confidence:        0.87,
			},
			{
				AssetID:           tsla.ID,
				SourceURL:         "https://reddit.com/r/stocks/example",
				ExtractedText:     "Tesla announces new factory expansion plans",
				ImageSentiment:    "positive",
				TextSentiment:     "positive",
				CombinedSentiment: "positive",
				Confidence:        0.75,
			},
			{
				AssetID:           aapl.ID,
				SourceURL:         "https://twitter.com/example/status/456",
				ExtractedText:     "Apple faces supply chain challenges",
				ImageSentiment:    "neutral",
				TextSentiment:     "negative",
				CombinedSentiment: "negative",
				Confidence:        0.65,
			},
		}
		if err := tx.Omit("Asset").Create(&analyses).Error; err != nil {
			return err
		}

		predictions := []models.MarketPrediction{
			{AssetID: btc.ID, CurrentPrice: 45000, PredictedPrice: 46500, PriceChangePercent: 3.33, SentimentScore: 0.87, HorizonHours: 24, Confidence: 0.82},
			{AssetID: tsla.ID, CurrentPrice: 250, PredictedPrice: 258.5, PriceChangePercent: 3.4, SentimentScore: 0.75, HorizonHours: 12, Confidence: 0.78},
			{AssetID: aapl.ID, CurrentPrice: 175, PredictedPrice: 172, PriceChangePercent: -1.71, SentimentScore: -0.65, HorizonHours: 24, Confidence: 0.70},
		}
		return tx.Omit("Asset").Create(&predictions).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
