package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration read from environment variables
type Config struct {
	Port      string
	BaseURL   string
	BasePath  string
	LogLevel  string
	LogFormat string

	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxIdleConns int
	DBMaxOpenConns int

	GoogleClientID     string
	GoogleClientSecret string

	SessionSecret   string
	SessionTTL      time.Duration
	CookieSecure    bool
	APIAuthRequired bool

	RedisURL          string
	RabbitMQURL       string
	KeyEventsExchange string

	SentryDSN   string
	Environment string
	CORSOrigins []string

	ManagerCacheSize int
	ManagerIdleTTL   time.Duration

	PlanName  string
	PlanLimit int
}

// Load returns configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		BaseURL:   strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		BasePath:  getEnv("BASE_PATH", "/"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBHost:         getEnv("DB_HOST", ""),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", ""),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		CookieSecure:    getEnvAsBool("COOKIE_SECURE", false),
		APIAuthRequired: getEnvAsBool("API_AUTH_REQUIRED", false),

		RedisURL:          getEnv("REDIS_URL", ""),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		KeyEventsExchange: getEnv("KEY_EVENTS_EXCHANGE", "api_key_events"),

		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),

		ManagerCacheSize: getEnvAsInt("MANAGER_CACHE_SIZE", 1024),
		ManagerIdleTTL:   getEnvAsDuration("MANAGER_IDLE_TTL", 2*time.Hour),

		PlanName:  getEnv("PLAN_NAME", "Researcher"),
		PlanLimit: getEnvAsInt("PLAN_LIMIT", 1000),
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if c.DatabaseDSN() == "" {
		return errors.New("missing database configuration: set DATABASE_URL or DB_HOST, DB_USER, DB_PASSWORD and DB_NAME")
	}
	return nil
}

// GoogleConfigured reports whether OAuth client credentials are present
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// DatabaseDSN returns DATABASE_URL or a DSN built from the DB_* variables
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBPassword == "" || c.DBName == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
