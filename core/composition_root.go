package core

import (
	"context"
	"fmt"

	"github.com/status-im/market-dashboard/api"
	"github.com/status-im/market-dashboard/coingecko"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/recently_viewed"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	// Recently viewed list, loaded on start
	backend, err := recently_viewed.NewBackend(ctx, cfg.RecentlyViewed)
	if err != nil {
		return nil, fmt.Errorf("failed to create recently viewed backend: %w", err)
	}
	recent := recently_viewed.NewStore(backend, cfg.RecentlyViewed.MaxItems)
	registry.Register(recent)

	// Provider client shared by every query
	client := coingecko.NewClient(&cfg.CoinGecko)

	// Dashboard service warming the default currency markets and the currency list
	dashboardService := dashboard.NewService(cfg, client)
	registry.Register(dashboardService)

	// Create HTTP server and register it as a core
	server := api.New(cfg.Server.Port, cfg.Server.DefaultCurrency, dashboardService, recent, client)
	registry.Register(server)

	return registry, nil
}
