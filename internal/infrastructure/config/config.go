package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Backend names accepted by SessionBackend and CatalogBackend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionTTL is the fixed session lifetime; validation never extends it.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	// SessionBackend selects where session records live: memory or redis.
	SessionBackend string `env:"SESSION_BACKEND, default=memory"`
	// CatalogBackend selects where catalog items live: memory or mongo.
	CatalogBackend string `env:"CATALOG_BACKEND, default=memory"`
	// CatalogSeed provisions sample items into an empty catalog at startup.
	CatalogSeed bool `env:"CATALOG_SEED, default=true"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dibs"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.SessionBackend {
	case BackendMemory, BackendRedis:
	default:
		return nil, fmt.Errorf("config: unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}
	switch cfg.CatalogBackend {
	case BackendMemory, BackendMongo:
	default:
		return nil, fmt.Errorf("config: unknown CATALOG_BACKEND %q", cfg.CatalogBackend)
	}

	return &cfg, nil
}
