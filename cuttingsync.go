//go:build !cli

package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pushApi "github.com/NguyenNhatCP/cuttingsync/api/push"
	"github.com/NguyenNhatCP/cuttingsync/config"
	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	pushService "github.com/NguyenNhatCP/cuttingsync/service/push"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	logger := logging.Setup()

	cfg := config.AppConfig
	if cfg.APISecret == "" {
		logger.Fatal().Msg("Missing API_SECRET in .env")
	}
	if cfg.CMCAPIKey == "" {
		logger.Fatal().Msg("Missing CMC_API_KEY in .env")
	}

	config.InitRedis()
	if config.RedisClient != nil {
		if err := config.RedisClient.Ping(config.RedisCtx()).Err(); err != nil {
			config.RedisClient = nil // Disable Redis if not reachable
			logger.Warn().Err(err).Msg("Redis configured but not reachable, using file token store")
		} else {
			logger.Info().Msg("Redis connection successful")
		}
	}

	store := pushService.NewTokenStore(cfg.TokensFile, config.RedisClient)
	sender := pushService.NewExpoSender("")

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	pushApi.RegisterPushRoutes(e, store, sender, cfg.APISecret)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info().Str("port", cfg.Port).Msg("push service listening")
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
