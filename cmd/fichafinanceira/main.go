// cmd/fichafinanceira/main.go
package main

import (
	"log"

	"ficha-service/internal/api/handlers"
	"ficha-service/internal/api/responses"
	"ficha-service/internal/config"
	"ficha-service/internal/core/extract"
	"ficha-service/internal/core/ficha"
	"ficha-service/internal/core/glossary"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger := responses.InitLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Falha ao carregar a configuração: ", err)
	}
	gin.SetMode(cfg.GinMode)

	rubricas, err := glossary.LoadFile(cfg.GlossaryPath)
	if err != nil {
		logger.Warn("glossário padrão indisponível, será exigido glossaryFile",
			zap.String("caminho", cfg.GlossaryPath), zap.Error(err))
	} else {
		logger.Info("glossário padrão carregado", zap.Int("rubricas", len(rubricas)))
	}

	fichaService := ficha.NewService(extract.NewPDFExtractor(""), cfg.YearMarker, logger)
	fichaHandler := handlers.NewFichaHandler(fichaService, rubricas, cfg.SimilarityThreshold, logger)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20
	handlers.RegisterRoutes(router, fichaHandler, cfg.MaxUploadMB<<20)

	log.Printf("🚀 Ficha Financeira Service (Go) iniciado e escutando na porta %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor da ficha financeira: ", err)
	}
}
