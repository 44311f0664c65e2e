package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/apierrors"
	cg "github.com/status-im/market-dashboard/coingecko_common"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/interfaces"
	"github.com/status-im/market-dashboard/metrics"
	"github.com/status-im/market-dashboard/validation"
)

var log = logrus.WithField("component", "coingecko")

const (
	MARKETS_API_PATH    = "/api/v3/coins/markets"
	CURRENCIES_API_PATH = "/api/v3/simple/supported_vs_currencies"
	COIN_API_PATH       = "/api/v3/coins/%s"
	MARKET_CHART_PATH   = "/api/v3/coins/%s/market_chart"
	TICKERS_API_PATH    = "/api/v3/coins/%s/tickers"
)

// historyDateLayout renders M/D/YYYY labels
const historyDateLayout = "1/2/2006"

// Client implements interfaces.IMarketDataClient on top of the CoinGecko REST API.
// It performs exactly one request per call: no caching and no retries.
type Client struct {
	config          *config.CoinGeckoConfig
	apiKey          cg.APIKey
	httpClients     map[string]*cg.HTTPClient
	metricsWriters  map[string]*metrics.MetricsWriter
	successfulFetch atomic.Bool
}

var _ interfaces.IMarketDataClient = (*Client)(nil)

// NewClient creates a new CoinGecko client
func NewClient(cfg *config.CoinGeckoConfig) *Client {
	limiterManager := cg.NewRateLimiterManager(cfg.RateLimits)

	c := &Client{
		config:         cfg,
		apiKey:         cg.APIKeyFromConfig(cfg),
		httpClients:    make(map[string]*cg.HTTPClient),
		metricsWriters: make(map[string]*metrics.MetricsWriter),
	}

	services := []string{
		metrics.ServiceMarkets,
		metrics.ServiceCurrencyRates,
		metrics.ServiceDetails,
		metrics.ServiceHistory,
		metrics.ServiceTickers,
	}
	for _, service := range services {
		opts := cg.DefaultClientOptions()
		opts.LogPrefix = "CoinGecko-" + service
		if cfg.ConnectionTimeout > 0 {
			opts.ConnectionTimeout = cfg.ConnectionTimeout
		}
		if cfg.RequestTimeout > 0 {
			opts.RequestTimeout = cfg.RequestTimeout
		}

		writer := metrics.NewMetricsWriter(service)
		c.metricsWriters[service] = writer
		c.httpClients[service] = cg.NewHTTPClient(opts, writer, limiterManager)
	}

	switch c.apiKey.Type {
	case cg.ProKey:
		log.Infof("CoinGecko: Using Pro API at %s", c.baseURL())
	case cg.DemoKey:
		log.Infof("CoinGecko: Using Public API with Demo key at %s", c.baseURL())
	default:
		log.Infof("CoinGecko: No API key configured, using public API at %s", c.baseURL())
	}

	return c
}

// Healthy reports whether at least one request has succeeded
func (c *Client) Healthy() bool {
	return c.successfulFetch.Load()
}

func (c *Client) baseURL() string {
	return cg.GetApiBaseUrl(c.config, c.apiKey.Type)
}

func (c *Client) newRequest(apiPath string) *cg.CoingeckoRequestBuilder {
	return cg.NewCoingeckoRequestBuilder(c.baseURL(), apiPath).
		WithApiKey(c.apiKey.Key, c.apiKey.Type)
}

// execute sends the request and returns the body of a 2xx response.
// Every failure is an *apierrors.Error.
func (c *Client) execute(ctx context.Context, service string, rb *cg.CoingeckoRequestBuilder) ([]byte, error) {
	resp, err := c.httpClients[service].Get(ctx, rb)
	if err != nil {
		return nil, apierrors.NewNetworkError(msgNetwork, err)
	}

	c.metricsWriters[service].RecordRequestLatency(rb.Path(), resp.Duration)

	if !isSuccess(resp.StatusCode) {
		return nil, errorFromResponse(resp)
	}

	c.successfulFetch.Store(true)
	return resp.Body, nil
}

func decodeBody(body []byte, target interface{}, what string) error {
	if err := json.Unmarshal(body, target); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("Invalid data received from API: %s: %v", what, err), err)
	}
	return nil
}

func coinPath(format, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", apierrors.NewValidationError("coin id is required", nil)
	}
	return fmt.Sprintf(format, url.PathEscape(id)), nil
}

// FetchTopMarkets returns the top limit assets ordered by market cap
func (c *Client) FetchTopMarkets(ctx context.Context, currency string, limit int) ([]interfaces.Cryptocurrency, error) {
	if limit <= 0 {
		limit = c.config.MarketsLimit
	}

	rb := c.newRequest(MARKETS_API_PATH).
		WithCurrency(currency).
		With("order", "market_cap_desc").
		WithInt("per_page", limit).
		WithBool("sparkline", false)

	body, err := c.execute(ctx, metrics.ServiceMarkets, rb)
	if err != nil {
		return nil, err
	}

	markets, err := validation.ParseMany(body)
	if err != nil {
		log.Warnf("CoinGecko: Rejected markets response for %s: %v", currency, err)
		return nil, err
	}

	log.Debugf("CoinGecko: Received %d markets for %s", len(markets), currency)
	return markets, nil
}

// FetchCurrencyRates returns the supported settlement currencies, uppercased, with rate 1
func (c *Client) FetchCurrencyRates(ctx context.Context) ([]interfaces.CurrencyRate, error) {
	body, err := c.execute(ctx, metrics.ServiceCurrencyRates, c.newRequest(CURRENCIES_API_PATH))
	if err != nil {
		return nil, err
	}

	var codes []string
	if err := decodeBody(body, &codes, "supported currencies"); err != nil {
		return nil, err
	}

	rates := make([]interfaces.CurrencyRate, 0, len(codes))
	for _, code := range codes {
		rates = append(rates, interfaces.CurrencyRate{
			Code: strings.ToUpper(code),
			Rate: 1,
		})
	}
	return rates, nil
}

// FetchDetails returns the details document of a coin as sent by the provider
func (c *Client) FetchDetails(ctx context.Context, id, currency string) (interfaces.CoinDetails, error) {
	apiPath, err := coinPath(COIN_API_PATH, id)
	if err != nil {
		return nil, err
	}

	rb := c.newRequest(apiPath).
		WithCurrency(currency).
		WithBool("localization", false).
		WithBool("tickers", false).
		WithBool("market_data", true).
		WithBool("community_data", false).
		WithBool("developer_data", false).
		WithBool("sparkline", false)

	body, err := c.execute(ctx, metrics.ServiceDetails, rb)
	if err != nil {
		return nil, err
	}

	var details interfaces.CoinDetails
	if err := decodeBody(body, &details, "coin details"); err != nil {
		return nil, err
	}
	if details == nil {
		return nil, apierrors.NewValidationError("Invalid data received from API: coin details: expected an object", nil)
	}
	return details, nil
}

// FetchHistory returns one price per day for the last days days, in provider order
func (c *Client) FetchHistory(ctx context.Context, id, currency string, days int) ([]interfaces.PricePoint, error) {
	apiPath, err := coinPath(MARKET_CHART_PATH, id)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = c.config.HistoryDays
	}

	rb := c.newRequest(apiPath).
		WithCurrency(strings.ToLower(currency)).
		WithInt("days", days).
		With("interval", "daily")

	body, err := c.execute(ctx, metrics.ServiceHistory, rb)
	if err != nil {
		return nil, err
	}

	var chart marketChartResponse
	if err := decodeBody(body, &chart, "market chart"); err != nil {
		return nil, err
	}
	if chart.Prices == nil {
		return nil, apierrors.NewValidationError("Invalid data received from API: market chart: missing prices", nil)
	}

	points := make([]interfaces.PricePoint, 0, len(chart.Prices))
	for i, pair := range chart.Prices {
		if len(pair) != 2 {
			return nil, apierrors.NewValidationError(
				fmt.Sprintf("Invalid data received from API: market chart: point %d: expected [timestamp, price]", i), nil)
		}
		ts := time.UnixMilli(int64(pair[0])).UTC()
		points = append(points, interfaces.PricePoint{
			Date:      ts.Format(historyDateLayout),
			Timestamp: ts,
			Price:     pair[1],
		})
	}
	return points, nil
}

// FetchTickers returns the exchange markets of a coin
func (c *Client) FetchTickers(ctx context.Context, id string) ([]interfaces.Ticker, error) {
	apiPath, err := coinPath(TICKERS_API_PATH, id)
	if err != nil {
		return nil, err
	}

	body, err := c.execute(ctx, metrics.ServiceTickers, c.newRequest(apiPath))
	if err != nil {
		return nil, err
	}

	var parsed tickersResponse
	if err := decodeBody(body, &parsed, "tickers"); err != nil {
		return nil, err
	}

	tickers := make([]interfaces.Ticker, 0, len(parsed.Tickers))
	for _, record := range parsed.Tickers {
		ticker := interfaces.Ticker{
			Exchange:    record.Market.Name,
			Last:        record.Last,
			Volume:      record.Volume,
			Timestamp:   record.Timestamp,
			LastFetchAt: record.LastFetchAt,
		}
		if record.TrustScore != nil {
			ticker.TrustScore = *record.TrustScore
		}
		if record.BidAskSpreadPercentage != nil {
			ticker.BidAskSpreadPercent = *record.BidAskSpreadPercentage
		}
		if record.TradeURL != nil {
			ticker.TradeURL = *record.TradeURL
		}
		tickers = append(tickers, ticker)
	}
	return tickers, nil
}
