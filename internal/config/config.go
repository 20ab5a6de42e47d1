package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/floroz/ledger/internal/adapters/database"
	"github.com/floroz/ledger/internal/domain/items"
	"github.com/floroz/ledger/pkg/events"
)

// Store backends
const (
	StoreLevelDB  = "leveldb"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config is the ledger process configuration
type Config struct {
	Addr string

	Store         string
	LevelDBPath   string
	DatabaseURL   string
	RedisURL      string
	RedisKey      string
	MaxRecordSize int

	// Journal is disabled when RabbitMQURL is empty
	RabbitMQURL string
	Exchange    string

	JWTPublicKeyPath string
	JWTIssuer        string
}

// Load reads .env.local and .env (local overrides) and builds the Config
// from the environment
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv builds the Config from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:             getEnv("LEDGER_ADDR", ":8080"),
		Store:            getEnv("LEDGER_STORE", StoreLevelDB),
		LevelDBPath:      getEnv("LEDGER_LEVELDB_PATH", "./data/ledger"),
		DatabaseURL:      os.Getenv("LEDGER_DB_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisKey:         getEnv("LEDGER_REDIS_KEY", database.DefaultRedisKey),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		Exchange:         getEnv("LEDGER_EXCHANGE", events.DefaultExchange),
		JWTPublicKeyPath: os.Getenv("JWT_PUBLIC_KEY_PATH"),
		JWTIssuer:        getEnv("JWT_ISSUER", "gavel-auth"),
	}

	size, err := strconv.Atoi(getEnv("LEDGER_MAX_RECORD_SIZE", strconv.Itoa(items.DefaultMaxRecordSize)))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_MAX_RECORD_SIZE: %w", err)
	}
	cfg.MaxRecordSize = size

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings required by the chosen backends are present
func (c *Config) Validate() error {
	if c.MaxRecordSize <= 0 {
		return errors.New("LEDGER_MAX_RECORD_SIZE must be positive")
	}
	if c.JWTPublicKeyPath == "" {
		return errors.New("JWT_PUBLIC_KEY_PATH is not set")
	}

	switch c.Store {
	case StoreLevelDB:
		if c.LevelDBPath == "" {
			return errors.New("LEDGER_LEVELDB_PATH is not set")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("LEDGER_DB_URL is not set")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is not set")
		}
	default:
		return fmt.Errorf("unknown LEDGER_STORE %q", c.Store)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
