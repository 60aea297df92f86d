package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 7, cfg.ForecastDays)
	assert.Equal(t, 30*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 256, cfg.AICacheSize)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Empty(t, cfg.KafkaAlertTopic, "publishing off by default")
	assert.False(t, cfg.AIEnabled, "AI off without a key")
	assert.Zero(t, cfg.RandomSeed)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("FORECAST_DAYS", "3")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "crop-alerts")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3, cfg.ForecastDays)
	assert.True(t, cfg.AIEnabled, "key implies AI on")
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "crop-alerts", cfg.KafkaAlertTopic)
	assert.Equal(t, int64(42), cfg.RandomSeed)
}

func TestLoad_AIFlag(t *testing.T) {
	t.Run("explicit opt-out with key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("AI_ENABLED", "false")
		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.AIEnabled)
	})

	t.Run("opt-in without key fails", func(t *testing.T) {
		t.Setenv("AI_ENABLED", "true")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative weather timeout", "WEATHER_TIMEOUT", "-1s"},
		{"forecast days too low", "FORECAST_DAYS", "1"},
		{"forecast days too high", "FORECAST_DAYS", "20"},
		{"forecast days not a number", "FORECAST_DAYS", "week"},
		{"zero cache size", "AI_CACHE_SIZE", "0"},
		{"bad seed", "RANDOM_SEED", "lucky"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, `
patna:
  primary: [rice, wheat]
  secondary: [gram]
  specialty: [maize]
vaishali:
  primary: [rice]
`)
		profiles, err := LoadProfiles(path)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, []string{"rice", "wheat"}, profiles["patna"].Primary)
		assert.Equal(t, []string{"gram"}, profiles["patna"].Secondary)
		assert.Empty(t, profiles["vaishali"].Secondary)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadProfiles(writeFile(t, "::bad"))
		assert.Error(t, err)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		_, err := LoadProfiles(writeFile(t, ""))
		assert.Error(t, err)
	})

	t.Run("district without primary crops rejected", func(t *testing.T) {
		_, err := LoadProfiles(writeFile(t, "patna:\n  secondary: [gram]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "primary")
	})
}
