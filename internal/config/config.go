// Package config loads deployment configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/endpoints"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/fetcher"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig
	Log         LogConfig
	Fetcher     FetcherConfig
	Upstream    UpstreamConfig
	Aggregation AggregationConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Port string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Pretty bool   // console output instead of JSON
}

// FetcherConfig holds the resilient-fetch knobs.
type FetcherConfig struct {
	MaxAttempts int
	Timeout     time.Duration
	BackoffBase time.Duration
	UserAgent   string
}

// UpstreamConfig holds the upstream base URLs.
type UpstreamConfig struct {
	GamesBaseURL   string
	CatalogBaseURL string
}

// AggregationConfig holds orchestration settings.
type AggregationConfig struct {
	// Workers bounds the per-game fan-out; 1 keeps the game loop sequential.
	Workers int

	// AssetTypes are the created-item asset types considered sellable.
	AssetTypes []string
}

// Load reads configuration from RMP_*-prefixed environment variables,
// falling back to defaults suitable for the public Roblox endpoints.
// Loaded once at process start; the result is never mutated.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "roblox-marketplace-proxy")
	v.SetDefault("app.port", "3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("fetcher.max_attempts", 3)
	v.SetDefault("fetcher.timeout", "10s")
	v.SetDefault("fetcher.backoff_base", "1s")
	v.SetDefault("fetcher.user_agent", fetcher.DefaultUserAgent)
	v.SetDefault("upstream.games_base_url", endpoints.DefaultGamesBaseURL)
	v.SetDefault("upstream.catalog_base_url", endpoints.DefaultCatalogBaseURL)
	v.SetDefault("aggregation.workers", 1)
	v.SetDefault("aggregation.asset_types", []string{"Shirt", "Pants", "TShirt"})

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
		Fetcher: FetcherConfig{
			MaxAttempts: v.GetInt("fetcher.max_attempts"),
			Timeout:     v.GetDuration("fetcher.timeout"),
			BackoffBase: v.GetDuration("fetcher.backoff_base"),
			UserAgent:   v.GetString("fetcher.user_agent"),
		},
		Upstream: UpstreamConfig{
			GamesBaseURL:   v.GetString("upstream.games_base_url"),
			CatalogBaseURL: v.GetString("upstream.catalog_base_url"),
		},
		Aggregation: AggregationConfig{
			Workers:    v.GetInt("aggregation.workers"),
			AssetTypes: v.GetStringSlice("aggregation.asset_types"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("app port is required")
	}
	if c.Fetcher.MaxAttempts < 1 {
		return fmt.Errorf("fetcher max_attempts must be >= 1 (got %d)", c.Fetcher.MaxAttempts)
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive (got %v)", c.Fetcher.Timeout)
	}
	if c.Aggregation.Workers < 1 {
		return fmt.Errorf("aggregation workers must be >= 1 (got %d)", c.Aggregation.Workers)
	}
	return nil
}
