package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"

	"rugbydata/internal/platform/logging"
)

// Config stores runtime configuration for the updater.
type Config struct {
	DataDir          string
	CompetitionsFile string
	FeedBaseURL      string
	WikipediaAPIURL  string
	HTTPTimeout      time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
	CircuitEnabled   bool
	LogLevel         logging.Level
}

func Load() (Config, error) {
	httpTimeout, err := getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	maxRetries, err := getEnvAsInt("MAX_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	retryBaseDelay, err := getEnvAsDuration("RETRY_BASE_DELAY", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	circuitEnabled, err := getEnvAsBool("CIRCUIT_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	logLevel, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	return Config{
		DataDir:          getEnv("DATA_DIR", "json"),
		CompetitionsFile: getEnv("COMPETITIONS_FILE", ""),
		FeedBaseURL:      getEnv("FEED_BASE_URL", ""),
		WikipediaAPIURL:  getEnv("WIKIPEDIA_API_URL", ""),
		HTTPTimeout:      httpTimeout,
		MaxRetries:       maxRetries,
		RetryBaseDelay:   retryBaseDelay,
		CircuitEnabled:   circuitEnabled,
		LogLevel:         logLevel,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
