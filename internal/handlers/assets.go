package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type assetView struct {
	ID        uint   `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	AssetType string `json:"asset_type,omitempty"`
}

type analysisView struct {
	ID                uint      `json:"id"`
	SourceURL         string    `json:"source_url"`
	ExtractedText     string    `json:"extracted_text"`
	CombinedSentiment string    `json:"combined_sentiment"`
	Confidence        float64   `json:"confidence"`
	CreatedAt         time.Time `json:"created_at"`
}

type predictionView struct {
	ID                 uint      `json:"id"`
	CurrentPrice       float64   `json:"current_price"`
	PredictedPrice     float64   `json:"predicted_price"`
	PriceChangePercent float64   `json:"price_change_percent"`
	SentimentScore     float64   `json:"sentiment_score"`
	HorizonHours       int       `json:"horizon_hours"`
	Confidence         float64   `json:"confidence"`
	CreatedAt          time.Time `json:"created_at"`
}

// ListAssets handles GET /api/assets.
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.store.ListAssets(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}

	out := make([]assetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, assetView{ID: a.ID, Symbol: a.Symbol, Name: a.Name, AssetType: a.AssetType})
	}
	c.JSON(http.StatusOK, gin.H{"assets": out})
}

// AssetAnalyses handles GET /api/assets/:id/analyses, newest first.
func (h *Handler) AssetAnalyses(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	asset, err := h.store.GetAsset(ctx, id)
	if err != nil {
		fail(c, err, "")
		return
	}
	rows, err := h.store.ListAnalyses(ctx, id)
	if err != nil {
		fail(c, err, "")
		return
	}

	out := make([]analysisView, 0, len(rows))
	for _, r := range rows {
		out = append(out, analysisView{
			ID:                r.ID,
			SourceURL:         r.SourceURL,
			ExtractedText:     r.ExtractedText,
			CombinedSentiment: r.CombinedSentiment,
			Confidence:        r.Confidence,
			CreatedAt:         r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"asset":    assetView{ID: asset.ID, Symbol: asset.Symbol, Name: asset.Name},
		"analyses": out,
	})
}

// AssetPredictions handles GET /api/assets/:id/predictions, newest first.
func (h *Handler) AssetPredictions(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	asset, err := h.store.GetAsset(ctx, id)
	if err != nil {
		fail(c, err, "")
		return
	}
	rows, err := h.store.ListPredictions(ctx, id)
	if err != nil {
		fail(c, err, "")
		return
	}

	out := make([]predictionView, 0, len(rows))
	for _, p := range rows {
		out = append(out, predictionView{
			ID:                 p.ID,
			CurrentPrice:       p.CurrentPrice,
			PredictedPrice:     p.PredictedPrice,
			PriceChangePercent: p.PriceChangePercent,
			SentimentScore:     p.SentimentScore,
			HorizonHours:       p.HorizonHours,
			Confidence:         p.Confidence,
			CreatedAt:          p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"asset":       assetView{ID: asset.ID, Symbol: asset.Symbol, Name: asset.Name},
		"predictions": out,
	})
}
