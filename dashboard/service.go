package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/exchanges"
	"github.com/status-im/market-dashboard/interfaces"
	"github.com/status-im/market-dashboard/query"
)

var log = logrus.WithField("component", "dashboard")

// Service exposes the dashboard data through the query layer.
// Every accessor returns the payload, the snapshot it came from and the outcome of
// the fetch it waited for, if any.
type Service struct {
	config  *config.Config
	client  interfaces.IMarketDataClient
	queries *query.Client

	mu        sync.Mutex
	observers []*query.Observer
}

// NewService creates a dashboard service
func NewService(cfg *config.Config, client interfaces.IMarketDataClient) *Service {
	return &Service{
		config:  cfg,
		client:  client,
		queries: query.NewClient(query.RetryPolicyFromConfig(cfg.Query.Retry), cfg.Cache),
	}
}

// Start observes the default currency markets and the currency list for the lifetime
// of the service, so they are always warm and refreshed in the background
func (s *Service) Start(ctx context.Context) error {
	currency := s.config.Server.DefaultCurrency

	markets, err := s.ObserveTopMarkets(currency, func(snap query.Snapshot) {
		if snap.Status == query.StatusFresh {
			log.Debugf("Dashboard: %s markets refreshed", currency)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to observe %s markets: %w", currency, err)
	}

	rates, err := s.ObserveCurrencyRates(func(query.Snapshot) {})
	if err != nil {
		markets.Stop()
		return fmt.Errorf("failed to observe currency rates: %w", err)
	}

	s.mu.Lock()
	s.observers = append(s.observers, markets, rates)
	s.mu.Unlock()

	log.Infof("Dashboard: Started, warming %s markets and currency rates", currency)
	return nil
}

// Stop ends background refreshes and in-flight fetches
func (s *Service) Stop() {
	s.mu.Lock()
	observers := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, o := range observers {
		o.Stop()
	}
	s.queries.Stop()
}

// Queries returns the underlying query client
func (s *Service) Queries() *query.Client {
	return s.queries
}

func (s *Service) marketsOptions() query.Options {
	return query.OptionsFromWindow(s.config.Query.Markets)
}

func (s *Service) marketsFetch(currency string) func(ctx context.Context) ([]interfaces.Cryptocurrency, error) {
	return func(ctx context.Context) ([]interfaces.Cryptocurrency, error) {
		return s.client.FetchTopMarkets(ctx, currency, s.config.CoinGecko.MarketsLimit)
	}
}

// TopMarkets returns the top assets by market cap in currency
func (s *Service) TopMarkets(ctx context.Context, currency string, refresh bool) ([]interfaces.Cryptocurrency, query.Snapshot, error) {
	key := MarketsKey(currency)
	return query.Load(ctx, s.queries, key, s.marketsOptions(), refresh, s.marketsFetch(key.Currency))
}

// CurrencyRates returns the supported settlement currencies
func (s *Service) CurrencyRates(ctx context.Context, refresh bool) ([]interfaces.CurrencyRate, query.Snapshot, error) {
	opts := query.OptionsFromWindow(s.config.Query.CurrencyRates)
	return query.Load(ctx, s.queries, CurrencyRatesKey(), opts, refresh, s.client.FetchCurrencyRates)
}

// Details returns the provider details document of a coin
func (s *Service) Details(ctx context.Context, id, currency string, refresh bool) (interfaces.CoinDetails, query.Snapshot, error) {
	key := DetailsKey(id, currency)
	opts := query.OptionsFromWindow(s.config.Query.Details)
	return query.Load(ctx, s.queries, key, opts, refresh, func(ctx context.Context) (interfaces.CoinDetails, error) {
		return s.client.FetchDetails(ctx, id, key.Currency)
	})
}

// History returns the daily prices of a coin; days <= 0 uses the configured span
func (s *Service) History(ctx context.Context, id, currency string, days int, refresh bool) ([]interfaces.PricePoint, query.Snapshot, error) {
	if days <= 0 {
		days = s.config.CoinGecko.HistoryDays
	}
	key := HistoryKey(id, currency, days)
	opts := query.OptionsFromWindow(s.config.Query.History)
	return query.Load(ctx, s.queries, key, opts, refresh, func(ctx context.Context) ([]interfaces.PricePoint, error) {
		return s.client.FetchHistory(ctx, id, key.Currency, days)
	})
}

// Tickers returns the exchange tickers of a coin
func (s *Service) Tickers(ctx context.Context, id string, refresh bool) ([]interfaces.Ticker, query.Snapshot, error) {
	opts := query.OptionsFromWindow(s.config.Query.Tickers)
	return query.Load(ctx, s.queries, TickersKey(id), opts, refresh, func(ctx context.Context) ([]interfaces.Ticker, error) {
		return s.client.FetchTickers(ctx, id)
	})
}

// Exchanges compares the reliable exchanges trading a coin
func (s *Service) Exchanges(ctx context.Context, id string, refresh bool) (exchanges.Comparison, query.Snapshot, error) {
	tickers, snap, err := s.Tickers(ctx, id, refresh)
	if !snap.HasData() {
		return exchanges.Comparison{}, snap, err
	}
	return exchanges.Compare(tickers), snap, err
}

// Search filters the top markets in currency by name or symbol; limit <= 0 means no limit
func (s *Service) Search(ctx context.Context, currency, term string, limit int) ([]interfaces.Cryptocurrency, query.Snapshot, error) {
	markets, snap, err := s.TopMarkets(ctx, currency, false)
	if !snap.HasData() {
		return nil, snap, err
	}
	return FilterMarkets(markets, term, limit), snap, err
}

// ObserveTopMarkets keeps the markets in currency refreshed and reports every change
func (s *Service) ObserveTopMarkets(currency string, listener query.Listener) (*query.Observer, error) {
	key := MarketsKey(currency)
	fetch := s.marketsFetch(key.Currency)
	return s.queries.Observe(key, s.marketsOptions(), func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	}, listener)
}

// ObserveCurrencyRates keeps the currency list refreshed and reports every change
func (s *Service) ObserveCurrencyRates(listener query.Listener) (*query.Observer, error) {
	opts := query.OptionsFromWindow(s.config.Query.CurrencyRates)
	return s.queries.Observe(CurrencyRatesKey(), opts, func(ctx context.Context) (interface{}, error) {
		return s.client.FetchCurrencyRates(ctx)
	}, listener)
}
