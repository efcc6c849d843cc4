package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8081", cfg.APIBaseURL)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.logineko.vn/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("STATS_YEAR", "2024")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.logineko.vn", cfg.APIBaseURL, "trailing slash is trimmed")
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, 2024, cfg.StatsYear)
	assert.True(t, cfg.TracingEnabled)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "relative base url", env: map[string]string{"API_BASE_URL": "localhost:8081"}},
		{name: "unknown database", env: map[string]string{"DB_TYPE": "oracle"}},
		{name: "postgres without url", env: map[string]string{"DB_TYPE": "postgres", "DATABASE_URL": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
