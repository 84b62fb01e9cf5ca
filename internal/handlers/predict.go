package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"market-sentiment/internal/types"
)

const defaultHorizonHours = 24

// predictRequest uses pointers so absent fields can be told apart from zero.
type predictRequest struct {
	AssetID        *uint    `json:"asset_id"`
	CurrentPrice   *float64 `json:"current_price"`
	SentimentScore *float64 `json:"sentiment_score"`
	HorizonHours   *int     `json:"horizon_hours"`
}

// Predict handles POST /api/predict.
func (h *Handler) Predict(c *gin.Context) {
	var body predictRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if body.AssetID == nil || *body.AssetID == 0 || body.CurrentPrice == nil || *body.CurrentPrice == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_id and current_price required"})
		return
	}

	req := types.PredictRequest{
		AssetID:      *body.AssetID,
		CurrentPrice: *body.CurrentPrice,
		HorizonHours: defaultHorizonHours,
	}
	if body.SentimentScore != nil {
		req.SentimentScore = *body.SentimentScore
	}
	if body.HorizonHours != nil {
		req.HorizonHours = *body.HorizonHours
	}

	rec, err := h.pipeline.Predict(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Prediction failed: ")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prediction_id":        rec.ID,
		"current_price":        rec.CurrentPrice,
		"predicted_price":      rec.PredictedPrice,
		"price_change_percent": rec.PriceChangePercent,
		"confidence":           rec.Confidence,
	})
}
