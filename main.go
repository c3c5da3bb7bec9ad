package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/routes"
	"github.com/kendall-kelly/local-services-api/services"
	"github.com/kendall-kelly/local-services-api/utils"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	utils.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log.Info().Str("env", cfg.GoEnv).Msg("Starting Local Services API server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	ctx := context.Background()
	hasher := services.NewBcryptHasher(cfg.BcryptCost)

	err = services.Bootstrap(ctx, config.GetDB(), hasher, services.AdminOptions{
		Enabled:    cfg.BootstrapAdmin,
		Username:   cfg.AdminUsername,
		Email:      cfg.AdminEmail,
		Password:   cfg.AdminPassword,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap database")
	}

	store, err := services.InitSessionStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}

	storage, err := services.InitStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image storage")
	}
	services.InitImageService(storage)

	services.InitIdentityService(config.GetDB(), hasher, store, services.NewSessionSigner(cfg.SecretKey), cfg.SessionTTL)

	router := routes.SetupRouter(cfg)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("Server is running")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
