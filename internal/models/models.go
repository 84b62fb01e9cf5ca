package models

import "time"

type Asset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Symbol    string    `json:"symbol" gorm:"uniqueIndex;size:32;not null"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	AssetType string    `json:"asset_type" gorm:"size:16;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// SentimentAnalysis is one persisted analysis. Rows are never updated.
type SentimentAnalysis struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	AssetID           uint      `json:"asset_id" gorm:"index;not null"`
	Asset             Asset     `json:"-"`
	SourceURL         string    `json:"source_url"`
	ExtractedText     string    `json:"extracted_text"`
	ImageSentiment    string    `json:"image_sentiment" gorm:"size:16"`
	TextSentiment     string    `json:"text_sentiment" gorm:"size:16"`
	CombinedSentiment string    `json:"combined_sentiment" gorm:"size:16"`
	Confidence        float64   `json:"confidence"`
	CreatedAt         time.Time `json:"created_at" gorm:"index"`
}

// MarketPrediction is one persisted price projection. Rows are never updated.
type MarketPrediction struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	AssetID            uint      `json:"asset_id" gorm:"index;not null"`
	Asset              Asset     `json:"-"`
	CurrentPrice       float64   `json:"current_price"`
	PredictedPrice     float64   `json:"predicted_price"`
	PriceChangePercent float64   `json:"price_change_percent"`
	SentimentScore     float64   `json:"sentiment_score"`
	HorizonHours       int       `json:"horizon_hours"`
	Confidence         float64   `json:"confidence"`
	CreatedAt          time.Time `json:"created_at" gorm:"index"`
}

type RecentAnalysis struct {
	ID          uint      `json:"id"`
	AssetSymbol string    `json:"asset_symbol"`
	Sentiment   string    `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalAssets      int64            `json:"total_assets"`
	TotalAnalyses    int64            `json:"total_analyses"`
	TotalPredictions int64            `json:"total_predictions"`
	RecentAnalyses   []RecentAnalysis `json:"recent_analyses"`
}
