package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,            default=8080"`
	Env       string        `env:"ENV,             default=development"`
	JWTSecret string        `env:"JWT_SECRET,      required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,       default=1h"`
	ResetTTL  time.Duration `env:"RESET_TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,       default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=streamhub_identity"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// The signing secret has no default: the process refuses to start without it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
