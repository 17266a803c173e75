package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelreviews/pkg/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("loads config from environment variables", func(t *testing.T) {
		envVars := map[string]string{
			"APP_ENV":           "test",
			"PORT":              "8080",
			"SENTRY_DSN":        "https://test@sentry.io/123",
			"ALLOW_ORIGINS":     "*",
			"DB_NAME":           "testdb",
			"DB_HOST":           "localhost",
			"DB_PORT":           "5432",
			"DB_USER":           "testuser",
			"DB_PASS":           "testpass",
			"ENABLE_SSL":        "true",
			"TMDB_API_KEY":      "tmdb-key",
			"TMDB_BASE_URL":     "https://tmdb.example.com/3",
			"SUPABASE_URL":      "https://project.supabase.co",
			"SUPABASE_ANON_KEY": "anon-key",
		}
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "https://test@sentry.io/123", cfg.SentryDSN)
		assert.Equal(t, "testdb", cfg.DB.Name)
		assert.Equal(t, "localhost", cfg.DB.Host)
		assert.Equal(t, 5432, cfg.DB.Port)
		assert.True(t, cfg.DB.EnableSSL)
		assert.Equal(t, "tmdb-key", cfg.TMDB.APIKey)
		assert.Equal(t, "https://tmdb.example.com/3", cfg.TMDB.BaseURL)
		assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
		assert.Equal(t, "anon-key", cfg.Supabase.AnonKey)
	})

	t.Run("defaults TMDB base URL", func(t *testing.T) {
		t.Setenv("TMDB_BASE_URL", "")
		os.Unsetenv("TMDB_BASE_URL")

		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	})

	t.Run("handles invalid port number", func(t *testing.T) {
		t.Setenv("PORT", "invalid")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})

	t.Run("handles invalid boolean value", func(t *testing.T) {
		t.Setenv("ENABLE_SSL", "not-a-boolean")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})
}
