package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Redis (empty disables cross-instance fan-out)
	RedisURL      string
	RedisRequired bool

	// Server
	Port        string
	FrontendURL string

	// Tables
	TableIdleMinutes   int
	ExpiryCheckSeconds int
	MaxTables          int
	RulesFile          string

	// Security
	JWTSecret         string
	ControlTokenHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisRequired: getEnvBool("REDIS_REQUIRED", false),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Tables
		TableIdleMinutes:   getEnvInt("TABLE_IDLE_MINUTES", 120),
		ExpiryCheckSeconds: getEnvInt("EXPIRY_CHECK_SECONDS", 60),
		MaxTables:          getEnvInt("MAX_TABLES", 500),
		RulesFile:          getEnv("RULES_FILE", ""),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		ControlTokenHours: getEnvInt("CONTROL_TOKEN_HOURS", 12),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
