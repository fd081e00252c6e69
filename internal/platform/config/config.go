package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	Environment        string
	FrontendDir        string
	PresetsFile        string
	PresetsWatch       bool
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
	WSMaxMessageBytes  int64
}

// Load reads the environment after merging an optional .env file from the
// working directory. Variables already set in the environment take precedence.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		FrontendDir:        getEnv("FRONTEND_DIR", ""),
		PresetsFile:        getEnv("PRESETS_FILE", ""),
		PresetsWatch:       getEnvBool("PRESETS_WATCH", false),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 65536)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		WSMaxMessageBytes:  int64(getEnvInt("WS_MAX_MESSAGE_BYTES", 4096)),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("APP_ADDR is required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.PresetsWatch && strings.TrimSpace(c.PresetsFile) == "" {
		return fmt.Errorf("PRESETS_FILE must be set when PRESETS_WATCH is true")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.WSMaxMessageBytes < 256 {
		return fmt.Errorf("WS_MAX_MESSAGE_BYTES must be at least 256")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	if c.IsProduction() {
		for _, origin := range c.CORSAllowedOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ALLOWED_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}
