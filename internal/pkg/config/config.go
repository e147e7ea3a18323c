package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Assets  AssetStoreConfig
}

// SessionConfig controls the signed session cookie: the inactivity window
// applied at login and the sliding extension granted per request.
type SessionConfig struct {
	Secret         string        `env:"SESSION_SECRET"`
	Duration       time.Duration `env:"SESSION_DURATION,        default=2m"`
	ActiveDuration time.Duration `env:"SESSION_ACTIVE_DURATION, default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=catalog"`
}

// RedisConfig configures the login throttle backend. An empty Addr
// disables throttling entirely.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// AssetStoreConfig points at the remote asset store's ingest endpoint.
type AssetStoreConfig struct {
	IngestURL string        `env:"ASSET_STORE_URL, default=http://localhost:9000/ingest"`
	APIKey    string        `env:"ASSET_STORE_API_KEY"`
	Timeout   time.Duration `env:"ASSET_STORE_TIMEOUT, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
