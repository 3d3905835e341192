package config

import (
	"os"
	"strconv"
	"time"
)

// Store backend selectors.
const (
	StoreAirtable = "airtable"
	StorePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string
	Port     string

	TelegramToken string
	StaffChatID   int64

	StoreBackend   string
	AirtableBaseID string
	AirtableTable  string
	AirtableToken  string
	DatabaseURL    string
	BackendTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	WorkdayCount int

	PriceImagePath    string
	ScheduleImagePath string
	PrepImagePath     string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),

		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		StaffChatID:   getEnvAsInt64("STAFF_CHAT_ID", 0),

		StoreBackend:   getEnv("STORE_BACKEND", StoreAirtable),
		AirtableBaseID: getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTable:  getEnv("AIRTABLE_TABLE", ""),
		AirtableToken:  getEnv("AIRTABLE_TOKEN", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		WorkdayCount: getEnvAsInt("WORKDAY_COUNT", 12),

		PriceImagePath:    getEnv("PRICE_IMAGE_PATH", "price.jpg"),
		ScheduleImagePath: getEnv("SCHEDULE_IMAGE_PATH", "graf.jpg"),
		PrepImagePath:     getEnv("PREP_IMAGE_PATH", "podg.jpg"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
