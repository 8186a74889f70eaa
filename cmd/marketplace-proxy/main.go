package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/RasmusBLX79/roblox-marketplace-proxy/internal/config"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/internal/server"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/endpoints"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/fetcher"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/logging"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/marketplace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	f := fetcher.New(fetcher.Config{
		MaxAttempts: cfg.Fetcher.MaxAttempts,
		Timeout:     cfg.Fetcher.Timeout,
		BackoffBase: cfg.Fetcher.BackoffBase,
		UserAgent:   cfg.Fetcher.UserAgent,
	})

	catalog := endpoints.New(cfg.Upstream.GamesBaseURL, cfg.Upstream.CatalogBaseURL)

	aggregator := marketplace.New(f, catalog, marketplace.Config{
		Workers:    cfg.Aggregation.Workers,
		AssetTypes: cfg.Aggregation.AssetTypes,
	})

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(aggregator, cfg.App.Name)

	logger.Info().
		Str("port", cfg.App.Port).
		Int("max_attempts", cfg.Fetcher.MaxAttempts).
		Dur("timeout", cfg.Fetcher.Timeout).
		Int("workers", cfg.Aggregation.Workers).
		Msg("Starting marketplace proxy")

	if err := router.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}
