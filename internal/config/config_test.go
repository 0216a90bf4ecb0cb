package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConsole(t *testing.T) {
	t.Run("should_use_defaults", func(t *testing.T) {
		t.Setenv("EVENTAPI_BASE_URL", "")
		t.Setenv("EVENTAPI_READ_TIMEOUT", "")

		cfg, err := LoadConsole()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
		assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	})

	t.Run("should_trim_trailing_slash", func(t *testing.T) {
		t.Setenv("EVENTAPI_BASE_URL", "https://api.example.com/ ")

		cfg, err := LoadConsole()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	})

	t.Run("should_reject_non_http_scheme", func(t *testing.T) {
		t.Setenv("EVENTAPI_BASE_URL", "ftp://files.example.com")

		cfg, err := LoadConsole()
		assert.Nil(t, cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "scheme must be http or https")
	})
}

func TestLoadServer(t *testing.T) {
	t.Run("should_allow_empty_database_in_dev", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")
		t.Setenv("DATABASE_URL", "")

		cfg, err := LoadServer()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "eventapi.events", cfg.RabbitExchange)
		assert.True(t, cfg.RLEnabled)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	})

	t.Run("should_fail_in_prod_if_database_url_is_missing", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DATABASE_URL", "")

		cfg, err := LoadServer()
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "missing DATABASE_URL")
	})

	t.Run("should_fail_in_prod_if_jwt_secret_is_missing", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DATABASE_URL", "postgres://localhost/events")
		t.Setenv("JWT_SECRET", "")

		cfg, err := LoadServer()
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "missing JWT_SECRET")
	})

	t.Run("should_parse_cors_list", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")
		t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

		cfg, err := LoadServer()
		require.NoError(t, err)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	})
}

func TestGetDuration(t *testing.T) {
	t.Run("should_parse_valid_duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "5s")
		assert.Equal(t, 5*time.Second, getDuration("TEST_DUR", 10*time.Second))
	})

	t.Run("should_return_default_on_invalid_duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "invalid")
		assert.Equal(t, 10*time.Second, getDuration("TEST_DUR", 10*time.Second))
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_KEY", "  value_with_spaces  ")
	assert.Equal(t, "value_with_spaces", getEnv("TEST_KEY", "default"))
}

func TestConsole_OverrideBaseURL(t *testing.T) {
	cfg := &Console{BaseURL: "http://localhost:8080"}

	require.NoError(t, cfg.OverrideBaseURL(" https://events.example.com/ "))
	assert.Equal(t, "https://events.example.com", cfg.BaseURL)

	assert.Error(t, cfg.OverrideBaseURL("ftp://events.example.com"))
	assert.Equal(t, "https://events.example.com", cfg.BaseURL, "rejected override keeps previous value")
}
