package query

import (
	"time"

	"github.com/status-im/market-dashboard/apierrors"
	"github.com/status-im/market-dashboard/config"
)

// RetryPolicy decides whether and when a failed foreground fetch is repeated
type RetryPolicy struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// NetworkRetries is the number of retries after a network error
	NetworkRetries int
	// DefaultRetries is the number of retries after any other retryable error
	DefaultRetries int
}

// DefaultRetryPolicy backs off 1s, 2s, 4s... up to 30s
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicyFromConfig(config.GetDefaultQueryConfig().Retry)
}

// RetryPolicyFromConfig converts configured retry settings
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		BaseDelay:      cfg.BaseDelay,
		MaxDelay:       cfg.MaxDelay,
		NetworkRetries: cfg.NetworkRetries,
		DefaultRetries: cfg.DefaultRetries,
	}
}

// ShouldRetry reports whether a fetch that failed with err after retries retries is repeated
func (p RetryPolicy) ShouldRetry(retries int, err error) bool {
	if err == nil || !apierrors.Retryable(err) {
		return false
	}
	if apierrors.KindOf(err) == apierrors.KindNetwork {
		return retries < p.NetworkRetries
	}
	return retries < p.DefaultRetries
}

// Delay returns the wait before retry number retry (0 based): min(base*2^retry, max)
func (p RetryPolicy) Delay(retry int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < retry; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}
