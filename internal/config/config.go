package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	WebhookToken string

	ChatBaseURL        string
	ChatToken          string
	ChatRetryAttempts  int
	ChatRetryBaseDelay time.Duration
	ChatRetryMaxDelay  time.Duration
}

func Load() *Config {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USERNAME", "standup"),
		DBPassword: dbPassword(),
		DBName:     getEnv("DB_NAME", "standup"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		WebhookToken: getEnv("WEBHOOK_TOKEN", ""),

		ChatBaseURL:        getEnv("CHAT_BASE_URL", ""),
		ChatToken:          getEnv("CHAT_TOKEN", ""),
		ChatRetryAttempts:  getEnvInt("CHAT_RETRY_ATTEMPTS", 3),
		ChatRetryBaseDelay: getEnvDuration("CHAT_RETRY_BASE_DELAY", time.Second),
		ChatRetryMaxDelay:  getEnvDuration("CHAT_RETRY_MAX_DELAY", 30*time.Second),
	}
}

// dbPassword prefers a password file (as mounted by container secret
// managers) over the plain environment variable.
func dbPassword() string {
	if path := os.Getenv("DB_PASSWORD_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return getEnv("DB_PASSWORD", "")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
