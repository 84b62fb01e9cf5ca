// Package handlers implements the JSON endpoints of the REST API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/types"
)

const (
	recentAnalyses = 5
	maxErrorLen    = 200
)

// Handler serves the API routes on top of the pipeline and the store.
type Handler struct {
	pipeline interfaces.Pipeline
	store    interfaces.Store
}

func New(pipeline interfaces.Pipeline, store interfaces.Store) *Handler {
	return &Handler{pipeline: pipeline, store: store}
}

// Register mounts the health check on r and the API routes on api.
func (h *Handler) Register(r, api gin.IRoutes) {
	r.GET("/healthz", h.Health)

	api.POST("/analyze", h.AnalyzeImage)
	api.POST("/analyze-url", h.AnalyzeURL)
	api.GET("/assets", h.ListAssets)
	api.GET("/assets/:id/analyses", h.AssetAnalyses)
	api.GET("/assets/:id/predictions", h.AssetPredictions)
	api.POST("/predict", h.Predict)
	api.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes the status mapped from err. Unclassified errors become a 500
// carrying prefix and a truncated message, or a bare 500 without a prefix.
func fail(c *gin.Context, err error, prefix string) {
	switch {
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrUpstreamFetch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
	default:
		logger.ErrorWithErr(c.Request.Context(), "Request failed", err, "path", c.FullPath())
		if prefix == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": prefix + truncate(err.Error(), maxErrorLen)})
	}
}

// assetID parses the :id path parameter. Anything that is not a positive
// integer cannot name an asset.
func assetID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return 0, false
	}
	return uint(id), true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
