package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default landing-page tile symbols, shown when none are configured.
var defaultTileSymbols = []string{
	"AAPL", "MSFT", "GOOG", "AMZN", "NVDA", "META",
	"TSLA", "BRK-B", "JPM", "V", "JNJ", "WMT",
}

// Config holds all configuration for the valuation client.
type Config struct {
	// Base URL of the valuation API
	APIBaseURL string `mapstructure:"api_base_url"`

	// Per-request timeout; zero disables the timeout entirely
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Symbols rendered as price tiles on the landing view
	TileSymbols []string `mapstructure:"tile_symbols"`

	// Maximum number of similar companies shown per valuation
	PeerLimit int `mapstructure:"peer_limit"`

	// Requests per second allowed against the tile price endpoint;
	// zero or negative means unlimited
	TileRateLimit float64 `mapstructure:"tile_rate_limit"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - API_BASE_URL (optional, defaults to the local dev backend)
//   - REQUEST_TIMEOUT (optional, Go duration string)
//   - TILE_SYMBOLS (optional, space-separated)
//   - PEER_LIMIT (optional)
//   - TILE_RATE_LIMIT (optional)
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("tile_symbols", defaultTileSymbols)
	v.SetDefault("peer_limit", 6)
	v.SetDefault("tile_rate_limit", 10.0)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.tickervalue")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("api_base_url", "API_BASE_URL")
	v.BindEnv("request_timeout", "REQUEST_TIMEOUT")
	v.BindEnv("tile_symbols", "TILE_SYMBOLS")
	v.BindEnv("peer_limit", "PEER_LIMIT")
	v.BindEnv("tile_rate_limit", "TILE_RATE_LIMIT")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// An env override arrives as one space-separated string
	config.TileSymbols = v.GetStringSlice("tile_symbols")

	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url must not be empty")
	}
	if config.PeerLimit <= 0 {
		return nil, fmt.Errorf("peer_limit must be positive, got %d", config.PeerLimit)
	}

	return config, nil
}
