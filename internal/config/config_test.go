package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads; viper treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "POSTGRES_URL", "AUTO_MIGRATE", "LOG_LEVEL", "LOG_FORMAT",
		"ENRICHMENT_MODE", "ENRICHMENT_PROVIDER", "ENRICHMENT_API_KEY", "ENRICHMENT_BASE_URL",
		"ENRICHMENT_MODEL", "ENRICHMENT_TIMEOUT", "GROQ_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"REDIS_URL", "CACHE_TTL", "JWT_SECRET", "GATEWAY_KEY_HASH",
	} {
		t.Setenv(key, "")
	}
}

func TestFromViper_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "classify", cfg.Enrichment.Mode)
	assert.Equal(t, "openai", cfg.Enrichment.Provider)
	assert.Equal(t, 8*time.Second, cfg.Enrichment.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.AutoMigrate)
}

func TestFromViper_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENRICHMENT_MODE", " Augment ")
	t.Setenv("ENRICHMENT_TIMEOUT", "3s")
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("JWT_SECRET", "jwt")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "augment", cfg.Enrichment.Mode)
	assert.Equal(t, 3*time.Second, cfg.Enrichment.Timeout)
	assert.Equal(t, "groq-key", cfg.Enrichment.APIKey)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "jwt", cfg.JWTSecret)
}

func TestFromViper_APIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENRICHMENT_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.Enrichment.APIKey)

	t.Setenv("ENRICHMENT_API_KEY", "explicit")
	cfg, err = FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Enrichment.APIKey)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"mode":     {"ENRICHMENT_MODE", "always"},
		"provider": {"ENRICHMENT_PROVIDER", "anthropic"},
		"timeout":  {"ENRICHMENT_TIMEOUT", "0s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := FromViper(viper.New())
			assert.Error(t, err)
		})
	}
}
