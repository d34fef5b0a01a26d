package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret  string // Required: shared HS256 signing secret (min 32 bytes)
	AdminToken string // Required to reach the admin surface; empty disables it

	Issuer               string        // Optional: issuer claim for tokens (default: authvault)
	Audience             string        // Optional: audience claim for tokens (default: authvault-api)
	OwnerID              string        // Optional: owning principal for admin-created clients (default: admin)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./authvault.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AdminToken:           os.Getenv("ADMIN_TOKEN"),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "authvault"),
		Audience:             getEnvOrDefault("AUTH_AUDIENCE", "authvault-api"),
		OwnerID:              getEnvOrDefault("ADMIN_OWNER_ID", "admin"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "authvault.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
