package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/dibsly/dibs-api/internal/api"
	"github.com/dibsly/dibs-api/internal/core/ports"
	"github.com/dibsly/dibs-api/internal/infrastructure/catalog"
	"github.com/dibsly/dibs-api/internal/infrastructure/config"
	dbmongo "github.com/dibsly/dibs-api/internal/infrastructure/db/mongo"
	dbredis "github.com/dibsly/dibs-api/internal/infrastructure/db/redis"
	"github.com/dibsly/dibs-api/internal/infrastructure/store/memory"
	"github.com/dibsly/dibs-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Session backend ---
	var sessions ports.SessionStore
	var redisClient *goredis.Client
	if cfg.SessionBackend == config.BackendRedis {
		redisClient, err = dbredis.Connect(ctx, dbredis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		sessions = dbredis.NewSessionStore(redisClient, cfg.SessionTTL)
	} else {
		sessions = memory.NewSessionStore(cfg.SessionTTL)
	}

	// --- Catalog and user backend ---
	var catalogRepo ports.CatalogRepository
	var userRepo ports.UserRepository
	var mongoDB *gomongo.Database
	if cfg.CatalogBackend == config.BackendMongo {
		client, db, err := dbmongo.Connect(ctx, dbmongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		mongoDB = db

		items := dbmongo.NewCatalogRepository(db)
		users := dbmongo.NewUserRepository(db)
		if err := items.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create catalog indexes")
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create user indexes")
		}
		catalogRepo, userRepo = items, users
	} else {
		catalogRepo = memory.NewCatalogRepository()
		userRepo = memory.NewUserRepository()
	}

	if cfg.CatalogSeed {
		if err := catalog.Seed(ctx, catalogRepo, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
	}

	e := api.NewRouter(api.Dependencies{
		Sessions: sessions,
		Catalog:  catalogRepo,
		Users:    userRepo,
		MongoDB:  mongoDB,
		Redis:    redisClient,
		Logger:   log,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("session_backend", cfg.SessionBackend).
			Str("catalog_backend", cfg.CatalogBackend).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
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
