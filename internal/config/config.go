// Package config loads service settings from environment variables, with an
// optional YAML file for district crop profile overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather provider configuration.
	WeatherTimeout time.Duration
	ForecastDays   int

	// OpenAI narrative configuration.
	OpenAIKey     string
	AIEnabled     bool
	OpenAITimeout time.Duration
	AICacheSize   int

	// Kafka alert publishing. Publishing is off unless a topic is set.
	KafkaBrokers    []string
	KafkaAlertTopic string

	// ProfileFile optionally overrides the built-in district crop profiles.
	ProfileFile string

	// RandomSeed fixes village and crop selection when non-zero. Zero means
	// seed from the clock.
	RandomSeed int64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := envDuration("WEATHER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	openaiTimeout, err := envDuration("OPENAI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	forecastDays, err := envInt("FORECAST_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if forecastDays < 3 || forecastDays > 16 {
		return nil, fmt.Errorf("FORECAST_DAYS must be between 3 and 16, got %d", forecastDays)
	}

	cacheSize, err := envInt("AI_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return nil, fmt.Errorf("AI_CACHE_SIZE must be positive, got %d", cacheSize)
	}

	seed, err := envInt64("RANDOM_SEED", 0)
	if err != nil {
		return nil, err
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	aiEnabled := openaiKey != ""
	if v := os.Getenv("AI_ENABLED"); v != "" {
		aiEnabled = v == "true"
	}
	if aiEnabled && openaiKey == "" {
		return nil, fmt.Errorf("AI_ENABLED is true but OPENAI_API_KEY is empty")
	}

	return &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		WeatherTimeout:  weatherTimeout,
		ForecastDays:    forecastDays,
		OpenAIKey:       openaiKey,
		AIEnabled:       aiEnabled,
		OpenAITimeout:   openaiTimeout,
		AICacheSize:     cacheSize,
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: os.Getenv("KAFKA_ALERT_TOPIC"),
		ProfileFile:     os.Getenv("PROFILE_FILE"),
		RandomSeed:      seed,
	}, nil
}

// LoadProfiles reads a district crop profile override file.
func LoadProfiles(path string) (map[string]domain.DistrictProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	var profiles map[string]domain.DistrictProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profile file %s: %w", path, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile file %s defines no districts", path)
	}
	for district, profile := range profiles {
		if len(profile.Primary) == 0 {
			return nil, fmt.Errorf("district %s has no primary crops", district)
		}
	}
	return profiles, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
