package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Database
	DatabaseDriver    string
	DatabaseURL       string
	DBSSLMode         string
	DBSSLCertPath     string
	DBSSLKeyPath      string
	DBSSLRootCertPath string
	DBAutoMigrate     bool

	// Redis (empty URL disables the lead list cache)
	RedisURL            string
	LeadCacheTTLSeconds int

	// RabbitMQ (empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Logging
	LogLevel string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Seeding
	SeedFakeLeads int
}

// Load reads an optional .env file and then the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to read .env file: %v", err)
	}

	return &Config{
		APIPort:        getEnv("API_PORT", "3001"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		DatabaseDriver:    getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:       getEnv("DATABASE_URL", "file:crm.db?cache=shared&_fk=1"),
		DBSSLMode:         getEnv("DB_SSL_MODE", ""),
		DBSSLCertPath:     getEnv("DB_SSL_CERT", ""),
		DBSSLKeyPath:      getEnv("DB_SSL_KEY", ""),
		DBSSLRootCertPath: getEnv("DB_SSL_ROOT_CERT", ""),
		DBAutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),

		RedisURL:            getEnv("REDIS_URL", ""),
		LeadCacheTTLSeconds: getEnvAsInt("LEAD_CACHE_TTL_SECONDS", 30),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "leaddesk.events"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 300),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 50),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),

		SeedFakeLeads: getEnvAsInt("SEED_FAKE_LEADS", 0),
	}
}

// IsPostgres reports whether the configured driver is PostgreSQL
func (c *Config) IsPostgres() bool {
	return c.DatabaseDriver == "postgres"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
