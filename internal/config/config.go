package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type EnrichmentConfig struct {
	Mode     string
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

type Config struct {
	Port        string
	Environment string
	PostgresURL string
	// AutoMigrate applies embedded migrations on startup.
	AutoMigrate bool

	LogLevel  string
	LogFormat string

	Enrichment EnrichmentConfig

	RedisURL string
	CacheTTL time.Duration

	// JWTSecret enables bearer auth on the verification endpoint when set.
	JWTSecret string
	// GatewayKeyHash is a bcrypt hash of the key SMS gateways present; empty disables the check.
	GatewayKeyHash string
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromViper(viper.New())
}

// FromViper reads configuration from the environment bound to v.
func FromViper(v *viper.Viper) (Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENRICHMENT_MODE", "classify")
	v.SetDefault("ENRICHMENT_PROVIDER", "openai")
	v.SetDefault("ENRICHMENT_TIMEOUT", "8s")
	v.SetDefault("CACHE_TTL", "24h")

	provider := strings.ToLower(strings.TrimSpace(v.GetString("ENRICHMENT_PROVIDER")))

	cfg := Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("APP_ENV"),
		PostgresURL: v.GetString("POSTGRES_URL"),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		Enrichment: EnrichmentConfig{
			Mode:     strings.ToLower(strings.TrimSpace(v.GetString("ENRICHMENT_MODE"))),
			Provider: provider,
			APIKey:   enrichmentKey(v, provider),
			BaseURL:  v.GetString("ENRICHMENT_BASE_URL"),
			Model:    v.GetString("ENRICHMENT_MODEL"),
			Timeout:  v.GetDuration("ENRICHMENT_TIMEOUT"),
		},
		RedisURL:       v.GetString("REDIS_URL"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		GatewayKeyHash: v.GetString("GATEWAY_KEY_HASH"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Enrichment.Mode {
	case "off", "augment", "classify":
	default:
		return fmt.Errorf("ENRICHMENT_MODE must be off, augment or classify, got %q", c.Enrichment.Mode)
	}
	switch c.Enrichment.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("ENRICHMENT_PROVIDER must be openai or gemini, got %q", c.Enrichment.Provider)
	}
	if c.Enrichment.Timeout <= 0 {
		return fmt.Errorf("ENRICHMENT_TIMEOUT must be positive")
	}
	return nil
}

// enrichmentKey falls back to the provider-specific variable names used by existing deployments.
func enrichmentKey(v *viper.Viper, provider string) string {
	if key := v.GetString("ENRICHMENT_API_KEY"); key != "" {
		return key
	}
	if provider == "gemini" {
		return v.GetString("GEMINI_API_KEY")
	}
	if key := v.GetString("GROQ_API_KEY"); key != "" {
		return key
	}
	return v.GetString("OPENAI_API_KEY")
}
