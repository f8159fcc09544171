package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registra as rotas da ficha financeira e o health check.
func RegisterRoutes(router *gin.Engine, fichaHandler *FichaHandler, maxUploadBytes int64) {
	apiV1 := router.Group("/api/v1")
	apiV1.Use(MaxBodySize(maxUploadBytes))
	{
		apiV1.POST("/ficha/consolidar", fichaHandler.HandleConsolidar)
		apiV1.POST("/ficha/descontos", fichaHandler.HandleDescontos)
		apiV1.POST("/ficha/relatorio/:tipo", fichaHandler.HandleRelatorio)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "ficha-service"})
	})
}
