// Package config loads atelier settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	// Timezone names the IANA zone "today" is resolved in.
	Timezone string
	Location *time.Location

	// Database. An empty DatabaseURL selects local SQLite at SQLitePath.
	DatabaseDriver   string
	DatabaseURL      string
	SQLitePath       string
	DatabaseMaxConns int

	// Redis plan cache; disabled when RedisURL is empty.
	RedisURL     string
	PlanCacheTTL time.Duration

	// RabbitMQ; events stay in the outbox when RabbitMQURL is empty.
	RabbitMQURL      string
	RabbitMQExchange string

	// Publisher circuit breaker
	PublisherBreakerMaxFailures int
	PublisherBreakerInterval    time.Duration
	PublisherBreakerTimeout     time.Duration

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr     string
	ReviewWorkerInterval time.Duration
	ReviewTriggerWeekday string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "Local"),

		DatabaseDriver:   getEnv("DATABASE_DRIVER", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:     getEnv("REDIS_URL", ""),
		PlanCacheTTL: getDurationEnv("PLAN_CACHE_TTL", 36*time.Hour),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "atelier.events"),

		PublisherBreakerMaxFailures: getIntEnv("PUBLISHER_BREAKER_MAX_FAILURES", 5),
		PublisherBreakerInterval:    getDurationEnv("PUBLISHER_BREAKER_INTERVAL", time.Minute),
		PublisherBreakerTimeout:     getDurationEnv("PUBLISHER_BREAKER_TIMEOUT", 30*time.Second),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr:     getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		ReviewWorkerInterval: getDurationEnv("REVIEW_WORKER_INTERVAL", time.Hour),
		ReviewTriggerWeekday: getEnv("REVIEW_TRIGGER_WEEKDAY", "monday"),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.ReviewWorkerInterval <= 0 {
		return nil, fmt.Errorf("REVIEW_WORKER_INTERVAL must be positive, got %s", cfg.ReviewWorkerInterval)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheEnabled reports whether a Redis plan cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// BrokerEnabled reports whether events are published to RabbitMQ.
func (c *Config) BrokerEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
