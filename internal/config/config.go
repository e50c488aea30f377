// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr     string
	DBDriver string // "postgres" or "sqlite"
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	// Requests per second allowed per client IP.
	RateLimit float64
	RateBurst int

	LogLevel logrus.Level
}

// Load reads the environment. A missing .env file is fine; a present but
// malformed one is not.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:      getEnv("PULSE_ADDR", ":8080"),
		DBDriver:  getEnv("PULSE_DB_DRIVER", "sqlite"),
		DBDSN:     getEnv("PULSE_DB_DSN", "pulse.db"),
		JWTSecret: getEnv("PULSE_JWT_SECRET", ""),
		JWTTTL:    24 * time.Hour,
		RateLimit: 20,
		RateBurst: 40,
		LogLevel:  logrus.InfoLevel,
	}

	if raw := os.Getenv("PULSE_JWT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse PULSE_JWT_TTL: %w", err)
		}
		cfg.JWTTTL = ttl
	}
	if raw := os.Getenv("PULSE_RATE_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse PULSE_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = limit
	}
	if raw := os.Getenv("PULSE_RATE_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse PULSE_RATE_BURST: %w", err)
		}
		cfg.RateBurst = burst
	}
	if raw := os.Getenv("PULSE_LOG_LEVEL"); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse PULSE_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("PULSE_JWT_SECRET must be set")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported PULSE_DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// OpenDB connects to the configured database.
func (c *Config) OpenDB() (*gorm.DB, error) {
	opts := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch c.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(c.DBDSN), opts)
	case "sqlite":
		return gorm.Open(sqlite.Open(c.DBDSN), opts)
	default:
		return nil, fmt.Errorf("unsupported driver %q", c.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
