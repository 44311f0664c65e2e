package recently_viewed

import (
	"context"
	"fmt"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/interfaces"
)

// NewBackend creates the configured backend. A Redis backend must answer a ping.
func NewBackend(ctx context.Context, cfg config.RecentlyViewedConfig) (interfaces.IRecentlyViewedBackend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		log.Infof("RecentlyViewed: Using file %s", cfg.FilePath)
		return NewFileBackend(cfg.FilePath), nil
	case config.BackendRedis:
		backend := NewRedisBackend(cfg.Redis)
		if err := backend.Ping(ctx); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Infof("RecentlyViewed: Using redis at %s", cfg.Redis.Addr)
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown recently viewed backend %q", cfg.Backend)
	}
}
