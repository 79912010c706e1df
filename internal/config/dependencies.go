package config

import (
	"context"
	"database/sql"
	"fmt"

	"taskflow/configs"
	"taskflow/internal/auth"
	"taskflow/internal/repository"
	"taskflow/internal/services"
	"taskflow/internal/websocket"
	"taskflow/pkg/crypto"
	"taskflow/pkg/database"
	"taskflow/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Dependencies is everything the HTTP layer needs, built once at startup.
type Dependencies struct {
	Store    *repository.Store
	Issuer   *auth.Issuer
	Services *services.Services
	Hub      *websocket.Hub

	DB          *sql.DB
	RedisClient *redis.Client
}

// NewDependencies wires services on top of an already opened store.
func NewDependencies(store *repository.Store, cfg configs.Config) *Dependencies {
	hub := websocket.NewHub()
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	sealer := crypto.NewSealer(cfg.FileEncryptionKey)
	return &Dependencies{
		Store:    store,
		Issuer:   issuer,
		Services: services.New(store, issuer, sealer, hub),
		Hub:      hub,
	}
}

// Build opens the configured store backend and wires the services on it.
func Build(ctx context.Context, cfg configs.Config) (*Dependencies, error) {
	var (
		backend repository.Backend
		db      *sql.DB
		rdb     *redis.Client
		err     error
	)
	switch cfg.StoreBackend {
	case "", "file":
		backend = repository.NewFileBackend(cfg.DataFile)
	case "memory":
		backend = repository.NewMemoryBackend()
	case "redis":
		rdb, err = database.ConnectRedis(ctx, fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort))
		if err != nil {
			return nil, err
		}
		backend = repository.NewRedisBackend(rdb, cfg.RedisKey)
	case "postgres":
		db, err = database.ConnectDB(database.PostgresDSN(cfg))
		if err != nil {
			return nil, err
		}
		if err := repository.CreateTableIfNotExists(db); err != nil {
			db.Close()
			return nil, err
		}
		backend = repository.NewPostgresBackend(db, "default")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	logger.SystemLogger.Info("Document store ready", zap.String("backend", cfg.StoreBackend))

	deps := NewDependencies(repository.NewStore(backend), cfg)
	deps.DB = db
	deps.RedisClient = rdb
	return deps, nil
}

// Close releases the store connections, if any.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.RedisClient != nil {
		d.RedisClient.Close()
	}
}
