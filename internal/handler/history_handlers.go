package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/repository"
)

type HistoryHandler struct {
	repo   repository.ValuationRepository
	logger *logrus.Logger
}

func NewHistoryHandler(repo repository.ValuationRepository, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, logger: logger}
}

// Recent handles GET /history.
func (h *HistoryHandler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 20
	}

	records, err := h.repo.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("history query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "history_unavailable", "message": "history store unavailable"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "records": records})
}

// ByPlatform handles GET /history/by-platform.
func (h *HistoryHandler) ByPlatform(c *gin.Context) {
	counts, err := h.repo.CountByPlatform(c.Request.Context())
	if err != nil {
		h.logger.Errorf("history count query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "history_unavailable", "message": "history store unavailable"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "counts": counts})
}
