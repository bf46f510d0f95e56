// Command server runs the StreamHub identity API: signup, login, session
// resolution, role administration, and password resets.
//
// @title           StreamHub Identity API
// @version         1.0
// @description     Authentication and authorization service for the StreamHub catalog.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamhub/identity-service/internal/api"
	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/infrastructure/config"
	mongodb "github.com/streamhub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/streamhub/identity-service/internal/infrastructure/db/redis"
	"github.com/streamhub/identity-service/pkg/logger"

	_ "github.com/streamhub/identity-service/docs" // swagger spec registration
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}
	if err := mongodb.NewRoleRepository(db).EnsureCatalog(ctx, domain.DefaultRoles); err != nil {
		log.Fatal().Err(err).Msg("seed role catalog")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
