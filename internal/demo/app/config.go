package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer    string // Required: issuer claim for tokens
	SecretKey string // Required: HMAC signing secret
	Algorithm string // Optional: JWT signing algorithm (HS256, HS384, HS512) (default: HS256)

	TokenTTL            time.Duration // Optional: access token lifetime (default: 15m)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./shield.db)
	AdminUsername       string        // Optional: bootstrap admin username (default: admin)
	AdminPassword       string        // Optional: bootstrap admin password (generated when empty)
	CORSOrigins         []string      // Optional: allowed CORS origins (default: none)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("SHIELD_ISSUER", "shield"),
		SecretKey:     os.Getenv("SHIELD_SECRET_KEY"),
		Algorithm:     getEnvOrDefault("SHIELD_ALGORITHM", "HS256"),
		TokenTTL:      getEnvDurationOrDefault("SHIELD_TOKEN_TTL", 15*time.Minute),
		DatabaseFile:  getEnvOrDefault("SHIELD_DATABASE_FILE", "shield.db"),
		AdminUsername: getEnvOrDefault("SHIELD_ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("SHIELD_ADMIN_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if origins := os.Getenv("SHIELD_CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg
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
