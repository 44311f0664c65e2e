package config

import (
	"fmt"
	"time"
)

// QueryWindow is the freshness policy of one resource kind
type QueryWindow struct {
	// StaleTime is how long fetched data is served without a network call
	StaleTime time.Duration `yaml:"stale_time"`
	// RefetchInterval re-fetches observed data in the background; 0 disables it
	RefetchInterval time.Duration `yaml:"refetch_interval"`
}

// RetryConfig configures the foreground retry policy
type RetryConfig struct {
	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
	// NetworkRetries is the retry budget for network errors
	NetworkRetries int `yaml:"network_retries"`
	// DefaultRetries is the retry budget for retryable API errors
	DefaultRetries int `yaml:"default_retries"`
}

// QueryConfig configures the query layer per resource kind
type QueryConfig struct {
	Markets       QueryWindow `yaml:"markets"`
	CurrencyRates QueryWindow `yaml:"currency_rates"`
	Details       QueryWindow `yaml:"details"`
	History       QueryWindow `yaml:"history"`
	Tickers       QueryWindow `yaml:"tickers"`
	Retry         RetryConfig `yaml:"retry"`
}

// GetDefaultQueryConfig returns the dashboard freshness and retry policy
func GetDefaultQueryConfig() QueryConfig {
	return QueryConfig{
		Markets:       QueryWindow{StaleTime: 60 * time.Second, RefetchInterval: 60 * time.Second},
		CurrencyRates: QueryWindow{StaleTime: time.Hour, RefetchInterval: time.Hour},
		Details:       QueryWindow{StaleTime: 30 * time.Second},
		History:       QueryWindow{StaleTime: 30 * time.Second},
		Tickers:       QueryWindow{StaleTime: 30 * time.Second},
		Retry: RetryConfig{
			BaseDelay:      1000 * time.Millisecond,
			MaxDelay:       30 * time.Second,
			NetworkRetries: 3,
			DefaultRetries: 2,
		},
	}
}

// Validate checks the query policy
func (c *QueryConfig) Validate() error {
	windows := map[string]QueryWindow{
		"markets":        c.Markets,
		"currency_rates": c.CurrencyRates,
		"details":        c.Details,
		"history":        c.History,
		"tickers":        c.Tickers,
	}
	for name, w := range windows {
		if w.StaleTime < 0 || w.RefetchInterval < 0 {
			return fmt.Errorf("%s: durations must not be negative", name)
		}
	}

	if c.Retry.BaseDelay <= 0 || c.Retry.MaxDelay < c.Retry.BaseDelay {
		return fmt.Errorf("retry: base_delay must be positive and not exceed max_delay")
	}
	if c.Retry.NetworkRetries < 0 || c.Retry.DefaultRetries < 0 {
		return fmt.Errorf("retry: retry budgets must not be negative")
	}
	return nil
}
