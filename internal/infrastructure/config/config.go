package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Sendgrid SendgridConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=rag_evaluator"`
}

// RedisConfig is optional: leaving Addr empty makes the service fall back to
// the in-memory OTP ledger.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// SendgridConfig is optional: without an API key OTP delivery degrades to
// log-only.
type SendgridConfig struct {
	APIKey string `env:"SENDGRID_API_KEY"`
	From   string `env:"SENDGRID_FROM_EMAIL, default=noreply@ragevaluator.com"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
