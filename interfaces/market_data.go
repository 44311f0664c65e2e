package interfaces

import "context"

//go:generate mockgen -destination=mocks/market_data.go . IMarketDataClient

// IMarketDataClient is the only component allowed to call the market data provider.
// Every failure is returned as an *apierrors.Error.
type IMarketDataClient interface {
	// FetchTopMarkets returns the top limit assets by market cap, denominated in currency
	FetchTopMarkets(ctx context.Context, currency string, limit int) ([]Cryptocurrency, error)

	// FetchCurrencyRates returns the settlement currencies supported by the provider
	FetchCurrencyRates(ctx context.Context) ([]CurrencyRate, error)

	// FetchDetails returns the provider details document for one coin
	FetchDetails(ctx context.Context, id, currency string) (CoinDetails, error)

	// FetchHistory returns daily prices for the last days days, oldest first
	FetchHistory(ctx context.Context, id, currency string, days int) ([]PricePoint, error)

	// FetchTickers returns the exchange markets of one coin
	FetchTickers(ctx context.Context, id string) ([]Ticker, error)
}
