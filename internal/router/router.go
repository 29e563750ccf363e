package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dealscope/dealscope/internal/handler"
)

type Config struct {
	ValuationHandler *handler.ValuationHandler
	HistoryHandler   *handler.HistoryHandler // nil when history is disabled
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1/")
	registerValuationRoutes(api, cfg.ValuationHandler)
	if cfg.HistoryHandler != nil {
		registerHistoryRoutes(api, cfg.HistoryHandler)
	}

	return router
}
