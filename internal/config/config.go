package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	AssistantBaseURL string
	AssistantTimeout time.Duration
	MaxUploadBytes   int64

	SessionStore string // memory or redis
	SessionTTL   time.Duration
	RedisURL     string

	// DatabaseURL enables quiz attempt history when set.
	DatabaseURL string

	CORSOrigins []string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", "http://localhost:8000"),
		AssistantTimeout: getDuration("ASSISTANT_TIMEOUT", 120*time.Second),
		MaxUploadBytes:   getInt64("MAX_UPLOAD_BYTES", 20<<20),

		SessionStore: getEnv("SESSION_STORE", "memory"),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS",
			"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,https://localhost:5173")),

		Events: EventConfig{
			Enabled:      getBool("EVENTS_ENABLED", false),
			Publisher:    getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:        getEnv("EVENTS_TOPIC", "study-assistant.sessions"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt64(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
