package config

import (
	"fmt"
	"time"
)

const (
	APIKeyTypeDemo = "demo"
	APIKeyTypePro  = "pro"
)

// CoinGeckoConfig configures the market data provider client
type CoinGeckoConfig struct {
	// APIKey is optional; the public API is used without it
	APIKey string `yaml:"api_key"`
	// APIKeyType is "demo" or "pro"
	APIKeyType string `yaml:"api_key_type"`

	OverridePublicURL string `yaml:"override_public_url"`
	OverrideProURL    string `yaml:"override_pro_url"`

	// MarketsLimit is the number of top assets requested per markets call
	MarketsLimit int `yaml:"markets_limit"`
	// HistoryDays is the default span of the price history
	HistoryDays int `yaml:"history_days"`

	ConnectionTimeout time.Duration `yaml:"connection_timeout"` // Timeout for establishing connection
	RequestTimeout    time.Duration `yaml:"request_timeout"`    // Total request timeout including reading response

	RateLimits APIKeyConfig `yaml:"rate_limits"`
}

// APIKeyConfig configures rate limiting per CoinGecko key type
type APIKeyConfig struct {
	// Requests per minute and burst per type. If zero, defaults are used.
	Pro   RateLimit `yaml:"pro"`
	Demo  RateLimit `yaml:"demo"`
	NoKey RateLimit `yaml:"nokey"`
}

// RateLimit represents a simple rpm + burst pair
type RateLimit struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	Burst              int `yaml:"burst"`
}

// GetDefaultCoinGeckoConfig returns default provider settings
func GetDefaultCoinGeckoConfig() CoinGeckoConfig {
	return CoinGeckoConfig{
		APIKeyType:        APIKeyTypeDemo,
		MarketsLimit:      50,
		HistoryDays:       7,
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}

// Validate checks provider settings
func (c *CoinGeckoConfig) Validate() error {
	if c.APIKey != "" && c.APIKeyType != APIKeyTypeDemo && c.APIKeyType != APIKeyTypePro {
		return fmt.Errorf("api_key_type must be %q or %q, got %q", APIKeyTypeDemo, APIKeyTypePro, c.APIKeyType)
	}
	if c.MarketsLimit <= 0 || c.MarketsLimit > 250 {
		return fmt.Errorf("markets_limit must be in [1, 250], got %d", c.MarketsLimit)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive, got %d", c.HistoryDays)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}
