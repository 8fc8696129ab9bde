package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config collects the environment-driven settings. STORAGE_DRIVER selects
// the repository implementation (memory for demos, mongo for production)
// and SESSION_STORE the session backing (memory or redis).
type Config struct {
	Port          string
	StorageDriver string
	MongoURI      string
	DBName        string
	RedisAddr     string
	RedisPass     string
	SessionStore  string
	JWTKey        string
	SessionTTL    time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		StorageDriver: getEnv("STORAGE_DRIVER", "memory"),
		MongoURI:      os.Getenv("MONGOURI"),
		DBName:        getEnv("DB", "marketplace"),
		RedisAddr:     os.Getenv("REDIS_ADD"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		SessionStore:  getEnv("SESSION_STORE", "memory"),
		JWTKey:        getEnv("JWT_KEY", "dev-only-secret"),
		SessionTTL:    24 * time.Hour,
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			slog.Warn("invalid SESSION_TTL, using default", "value", ttl, "err", err)
		} else {
			cfg.SessionTTL = parsed
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
