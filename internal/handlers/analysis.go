package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"market-sentiment/internal/types"
)

// AnalyzeImage handles POST /api/analyze (multipart: image, symbol, source_url).
func (h *Handler) AnalyzeImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds the upload limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
		return
	}

	res, err := h.pipeline.AnalyzeImage(c.Request.Context(), types.ImageRequest{
		Image:     data,
		Symbol:    c.PostForm("symbol"),
		SourceURL: c.PostForm("source_url"),
	})
	if err != nil {
		fail(c, err, "Analysis failed: ")
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalyzeURL handles POST /api/analyze-url.
func (h *Handler) AnalyzeURL(c *gin.Context) {
	var req types.URLRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	req.Symbol = strings.TrimSpace(req.Symbol)
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	res, err := h.pipeline.AnalyzeURL(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Analysis failed: ")
		return
	}
	c.JSON(http.StatusOK, res)
}
