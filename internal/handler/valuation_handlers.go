package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealscope/dealscope/internal/valuation"
)

type ValuationHandler struct {
	service *valuation.Service
}

func NewValuationHandler(service *valuation.Service) *ValuationHandler {
	return &ValuationHandler{service: service}
}

type fromURLRequest struct {
	URL string `json:"url" binding:"required"`
}

type batchRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// FromURL handles POST /valuation/from-url.
func (h *ValuationHandler) FromURL(c *gin.Context) {
	var req fromURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, cached, verr := h.service.ValueURL(c.Request.Context(), req.URL)
	if verr != nil {
		writeValuationError(c, verr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cached":  cached,
		"data":    result,
	})
}

// Batch handles POST /valuation/batch.
func (h *ValuationHandler) Batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	items, summary, verr := h.service.ValueBatch(c.Request.Context(), req.URLs)
	if verr != nil {
		writeValuationError(c, verr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": items,
		"summary": summary,
	})
}

// Platforms handles GET /platforms.
func (h *ValuationHandler) Platforms(c *gin.Context) {
	platforms := h.service.Registry().Platforms()
	c.JSON(http.StatusOK, gin.H{
		"platforms": platforms,
		"count":     len(platforms),
	})
}

// Health handles GET /health.
func (h *ValuationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"scrapers":   h.service.Registry().Size(),
		"cache_size": h.service.CacheSize(),
	})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "invalid_request",
			"message": err.Error(),
		},
	})
}

func writeValuationError(c *gin.Context, verr *valuation.Error) {
	payload := gin.H{
		"code":    verr.Code,
		"message": verr.Message,
	}
	if len(verr.Platforms) > 0 {
		payload["supported_platforms"] = verr.Platforms
	}
	c.JSON(verr.Status, gin.H{
		"success": false,
		"error":   payload,
	})
}
