package coingecko_common

import "github.com/status-im/market-dashboard/config"

// KeyType defines the API key type
type KeyType int

const (
	// NoKey means no API key is available
	NoKey KeyType = iota
	// ProKey means using a Pro API key
	ProKey
	// DemoKey means using a demo API key
	DemoKey
)

// APIKey represents an API key with its type
type APIKey struct {
	Key  string
	Type KeyType
}

// APIKeyFromConfig returns the configured key, or the no-key entry when none is set
func APIKeyFromConfig(cfg *config.CoinGeckoConfig) APIKey {
	if cfg == nil || cfg.APIKey == "" {
		return APIKey{Type: NoKey}
	}
	if cfg.APIKeyType == config.APIKeyTypePro {
		return APIKey{Key: cfg.APIKey, Type: ProKey}
	}
	return APIKey{Key: cfg.APIKey, Type: DemoKey}
}
