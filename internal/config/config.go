// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	// Addr is the host:port the HTTP server binds to.
	Addr string

	// DBPath is the SQLite database file location.
	DBPath string

	// JWTSecret signs session tokens. Required outside of tests.
	JWTSecret string

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration

	// ShutdownTimeout bounds graceful shutdown on exit.
	ShutdownTimeout time.Duration
}

const (
	defaultPort            = 8080
	defaultDBPath          = "./data/splitledger.db"
	defaultTokenTTL        = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	port := defaultPort
	if raw := os.Getenv("PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		port = p
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
		tokenTTL = d
	}

	return Config{
		Addr:            fmt.Sprintf("%s:%d", os.Getenv("SERVER_HOST"), port),
		DBPath:          valueOrDefault("DB_PATH", defaultDBPath),
		JWTSecret:       secret,
		TokenTTL:        tokenTTL,
		ShutdownTimeout: defaultShutdownTimeout,
	}, nil
}

func valueOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
