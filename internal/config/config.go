// Package config lê a configuração do serviço a partir do ambiente e de um .env opcional.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config reúne a configuração do serviço de fichas financeiras.
type Config struct {
	Port                string
	GinMode             string
	GlossaryPath        string
	SimilarityThreshold float64
	YearMarker          string
	MaxUploadMB         int64
}

// Load carrega o .env e o config.yaml, ambos opcionais. Variáveis de ambiente
// têm precedência sobre o arquivo.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("erro ao carregar .env: %w", err)
	}
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("erro ao ler config.yaml: %w", err)
		}
	}
	return FromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8084")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("GLOSSARY_PATH", "Rubricas.txt")
	v.SetDefault("SIMILARITY_THRESHOLD", 85.0)
	v.SetDefault("YEAR_MARKER", "ANO REFERÊNCIA")
	v.SetDefault("MAX_UPLOAD_MB", 32)
	v.AutomaticEnv()
	return v
}

// FromViper monta e valida a configuração a partir de uma instância viper.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		GinMode:             v.GetString("GIN_MODE"),
		GlossaryPath:        v.GetString("GLOSSARY_PATH"),
		SimilarityThreshold: v.GetFloat64("SIMILARITY_THRESHOLD"),
		YearMarker:          v.GetString("YEAR_MARKER"),
		MaxUploadMB:         v.GetInt64("MAX_UPLOAD_MB"),
	}
	if cfg.Port == "" {
		return nil, errors.New("PORT não pode ser vazio")
	}
	// Valores em (0, 1] seguem a escala do slider (0,85 -> 85).
	if cfg.SimilarityThreshold > 0 && cfg.SimilarityThreshold <= 1 {
		cfg.SimilarityThreshold *= 100
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 100 {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD fora do intervalo 0-100: %v", cfg.SimilarityThreshold)
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB inválido: %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}
