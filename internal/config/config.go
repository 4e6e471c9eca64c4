// Package config loads the backend configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration.
type Config struct {
	Port   string
	DBPath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Budget status thresholds, see budget.Classify.
	WarningThreshold decimal.Decimal
	OverThreshold    decimal.Decimal
}

// Load reads the configuration from a .env file (if present) and the
// environment. All values have defaults suitable for development.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	config := Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "data/gorm.db"),
		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		WarningThreshold: getDecimal("BUDGET_WARNING_THRESHOLD", "0.8"),
		OverThreshold:    getDecimal("BUDGET_OVER_THRESHOLD", "1.0"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Warn().Str("JWT_EXPIRES_IN", expStr).Msg("invalid duration, falling back to 24h")
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)

	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warn().Str(key, raw).Msg("not a number, using default")
		value = decimal.RequireFromString(defaultValue)
	}

	return value
}
