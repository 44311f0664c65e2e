package coingecko_common

import (
	"math"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/status-im/market-dashboard/config"
)

// IRateLimiterManager provides a way to get a rate limiter for a request URL
type IRateLimiterManager interface {
	GetLimiterForURL(u *url.URL) *rate.Limiter
}

// RateLimiterManager manages per-key rate limiters using APIKeyConfig
type RateLimiterManager struct {
	mu           sync.RWMutex
	keyToLimiter map[string]*rate.Limiter
	config       config.APIKeyConfig
}

// Defaults in requests per minute, used when config is not provided
const (
	defaultProRPM   = 500
	defaultDemoRPM  = 30
	defaultNoKeyRPM = 30
)

// NewRateLimiterManager creates a manager for the given limits
func NewRateLimiterManager(cfg config.APIKeyConfig) *RateLimiterManager {
	return &RateLimiterManager{
		keyToLimiter: make(map[string]*rate.Limiter),
		config:       cfg,
	}
}

// GetLimiterForURL inspects the URL to determine key and type and returns appropriate limiter
func (m *RateLimiterManager) GetLimiterForURL(u *url.URL) *rate.Limiter {
	if m == nil || u == nil {
		return nil
	}

	query := u.Query()

	// Prefer explicit key params
	if v := query.Get("x_cg_pro_api_key"); v != "" {
		return m.getLimiterForKey(v, ProKey)
	}
	if v := query.Get("x_cg_demo_api_key"); v != "" {
		return m.getLimiterForKey(v, DemoKey)
	}

	// Apply public limiter only for known CoinGecko hosts
	host := u.Hostname()
	if host == "api.coingecko.com" || host == "pro-api.coingecko.com" {
		return m.getLimiterForKey("", NoKey)
	}

	// No limiter for unrelated hosts
	return nil
}

// getLimiterForKey returns a limiter for a given api key and type, creating it if missing
func (m *RateLimiterManager) getLimiterForKey(key string, keyType KeyType) *rate.Limiter {
	mapKey := keyTypeString(keyType) + "|" + key

	m.mu.RLock()
	if lim, ok := m.keyToLimiter[mapKey]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if lim, ok := m.keyToLimiter[mapKey]; ok {
		return lim
	}

	limit := m.limitForType(keyType)
	limiter := rate.NewLimiter(limit, m.burstForType(keyType, limit))
	m.keyToLimiter[mapKey] = limiter
	return limiter
}

func keyTypeString(keyType KeyType) string {
	switch keyType {
	case ProKey:
		return "pro"
	case DemoKey:
		return "demo"
	default:
		return "none"
	}
}

func (m *RateLimiterManager) limitForType(keyType KeyType) rate.Limit {
	var rpm int
	switch keyType {
	case ProKey:
		rpm = orDefault(m.config.Pro.RateLimitPerMinute, defaultProRPM)
	case DemoKey:
		rpm = orDefault(m.config.Demo.RateLimitPerMinute, defaultDemoRPM)
	default:
		rpm = orDefault(m.config.NoKey.RateLimitPerMinute, defaultNoKeyRPM)
	}
	return rate.Limit(float64(rpm) / 60.0)
}

func (m *RateLimiterManager) burstForType(keyType KeyType, limit rate.Limit) int {
	var burst int
	switch keyType {
	case ProKey:
		burst = m.config.Pro.Burst
	case DemoKey:
		burst = m.config.Demo.Burst
	default:
		burst = m.config.NoKey.Burst
	}
	if burst > 0 {
		return burst
	}
	return defaultBurstForLimit(limit)
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func defaultBurstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
