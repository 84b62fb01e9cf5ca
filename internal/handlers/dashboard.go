package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.store.Dashboard(c.Request.Context(), recentAnalyses)
	if err != nil {
		fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_assets":      stats.TotalAssets,
			"total_analyses":    stats.TotalAnalyses,
			"total_predictions": stats.TotalPredictions,
		},
		"recent_analyses": stats.RecentAnalyses,
	})
}
