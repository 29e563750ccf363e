package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dealscope/dealscope/internal/handler"
)

func registerValuationRoutes(router *gin.RouterGroup, valuationHandler *handler.ValuationHandler) {
	valuations := router.Group("/valuation")
	{
		valuations.POST("/from-url", valuationHandler.FromURL)
		valuations.POST("/batch", valuationHandler.Batch)
	}

	router.GET("/platforms", valuationHandler.Platforms)
	router.GET("/health", valuationHandler.Health)
}

func registerHistoryRoutes(router *gin.RouterGroup, historyHandler *handler.HistoryHandler) {
	histories := router.Group("/history")
	{
		histories.GET("", historyHandler.Recent)
		histories.GET("/by-platform", historyHandler.ByPlatform)
	}
}
