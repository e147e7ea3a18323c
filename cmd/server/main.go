package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/catalogworks/catalog/internal/api"
	"github.com/catalogworks/catalog/internal/infrastructure/assetstore"
	mongostore "github.com/catalogworks/catalog/internal/infrastructure/db/mongo"
	redisstore "github.com/catalogworks/catalog/internal/infrastructure/db/redis"
	"github.com/catalogworks/catalog/internal/pkg/config"
	"github.com/catalogworks/catalog/pkg/logger"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "catalog",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongostore.NewCatalogRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog index creation failed")
	}
	if err := mongostore.NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user index creation failed")
	}

	rdb := connectRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	assets := assetstore.NewClient(assetstore.Config{
		IngestURL: cfg.Assets.IngestURL,
		APIKey:    cfg.Assets.APIKey,
		Timeout:   cfg.Assets.Timeout,
	})

	e, err := api.NewRouter(cfg, log, db, rdb, assets)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// connectRedis is best effort. The login throttle degrades to disabled when
// Redis is not configured or not reachable.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	log := logger.Get()
	if cfg.Redis.Addr == "" {
		log.Info().Msg("redis not configured, login throttle disabled")
		return nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttle disabled")
		return nil
	}
	return rdb
}
