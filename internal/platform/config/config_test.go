package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_ADDR", "APP_ENV", "PRESETS_FILE", "RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Nil(t, cfg.CORSAllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("PRESETS_FILE", "presets.toml")
	t.Setenv("PRESETS_WATCH", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "notanumber")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.PresetsWatch)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{
		Addr:              ":8080",
		MaxBodyBytes:      4096,
		ShutdownTimeout:   time.Second,
		WSMaxMessageBytes: 4096,
		LogFormat:         "json",
	}
	require.NoError(t, base.Validate())

	watchWithoutFile := base
	watchWithoutFile.PresetsWatch = true
	assert.Error(t, watchWithoutFile.Validate())

	tinyBody := base
	tinyBody.MaxBodyBytes = 10
	assert.Error(t, tinyBody.Validate())

	badFormat := base
	badFormat.LogFormat = "xml"
	assert.Error(t, badFormat.Validate())

	wildcardProd := base
	wildcardProd.Environment = "production"
	wildcardProd.CORSAllowedOrigins = []string{"*"}
	assert.Error(t, wildcardProd.Validate())
}
