package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/market-dashboard/apierrors"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/exchanges"
	"github.com/status-im/market-dashboard/interfaces"
	mock_interfaces "github.com/status-im/market-dashboard/interfaces/mocks"
	"github.com/status-im/market-dashboard/recently_viewed"
)

var testMarkets = []interfaces.Cryptocurrency{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 50000, MarketCap: 1e12, MarketCapRank: 1, TotalVolume: 3e10, PriceChangePercentage24h: 5.5, Image: "https://example.com/btc.png"},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3000, MarketCap: 5e11, MarketCapRank: 2, TotalVolume: 2e10, PriceChangePercentage24h: -2.5, Image: "https://example.com/eth.png"},
}

type fakeProvider struct {
	healthy bool
}

func (f fakeProvider) Healthy() bool {
	return f.healthy
}

type testEnv struct {
	client *mock_interfaces.MockIMarketDataClient
	recent *recently_viewed.Store
	http   *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	client := mock_interfaces.NewMockIMarketDataClient(gomock.NewController(t))
	service := dashboard.NewService(config.DefaultConfig(), client)
	t.Cleanup(service.Stop)

	recent := recently_viewed.NewStore(recently_viewed.NewFileBackend(filepath.Join(t.TempDir(), "local_storage.json")), 10)
	require.NoError(t, recent.Load(context.Background()))

	server := New("0", "usd", service, recent, fakeProvider{healthy: true})
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	t.Cleanup(server.Stop)

	return &testEnv{client: client, recent: recent, http: ts}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.http.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

type marketsBody struct {
	Data    []marketItem `json:"data"`
	Stale   bool         `json:"stale"`
	Warning *errorBody   `json:"warning"`
}

func TestMarkets(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchTopMarkets(gomock.Any(), "eur", 50).Return(testMarkets, nil).Times(1)

	resp := env.do(t, http.MethodGet, "/api/v1/markets?currency=EUR", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fresh", resp.Header.Get("Cache-Status"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var body marketsBody
	decode(t, resp, &body)
	require.Len(t, body.Data, 2)
	assert.False(t, body.Stale)
	assert.Equal(t, "bitcoin", body.Data[0].ID)
	assert.Equal(t, "€50,000.00", body.Data[0].Display.Price)
	assert.Equal(t, "+5.50%", body.Data[0].Display.Change24h)
	assert.Equal(t, "€1.00T", body.Data[0].Display.MarketCap)
	assert.Equal(t, "down", body.Data[1].Display.Trend)

	// Served from cache
	resp = env.do(t, http.MethodGet, "/api/v1/markets?currency=eur", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMarkets_RefreshRefetches(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchTopMarkets(gomock.Any(), "usd", 50).Return(testMarkets, nil).Times(2)

	env.do(t, http.MethodGet, "/api/v1/markets", nil)
	resp := env.do(t, http.MethodGet, "/api/v1/markets?refresh=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMarkets_RateLimitWithoutData(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchTopMarkets(gomock.Any(), "usd", 50).
		Return(nil, apierrors.NewAPIError("Rate limit exceeded. Please try again later.", http.StatusTooManyRequests, apierrors.CodeRateLimit))

	resp := env.do(t, http.MethodGet, "/api/v1/markets", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "failed", resp.Header.Get("Cache-Status"))

	var body errorResponse
	decode(t, resp, &body)
	assert.Equal(t, "RATE_LIMIT", body.Error.Code)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", body.Error.Message)
}

func TestRequestIDIsKept(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchCurrencyRates(gomock.Any()).Return([]interfaces.CurrencyRate{{Code: "USD", Rate: 1}}, nil)

	req, err := http.NewRequest(http.MethodGet, env.http.URL+"/api/v1/currencies", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestSearchAndOverview(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchTopMarkets(gomock.Any(), "usd", 50).Return(testMarkets, nil).Times(1)

	resp := env.do(t, http.MethodGet, "/api/v1/search?q=ETH", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var search marketsBody
	decode(t, resp, &search)
	require.Len(t, search.Data, 1)
	assert.Equal(t, "ethereum", search.Data[0].ID)

	resp = env.do(t, http.MethodGet, "/api/v1/overview?limit=2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var overview struct {
		Data []dashboard.Share `json:"data"`
	}
	decode(t, resp, &overview)
	require.Len(t, overview.Data, 2)
	assert.Equal(t, "BTC", overview.Data[0].Symbol)
	assert.Equal(t, 66.67, overview.Data[0].Percent)

	resp = env.do(t, http.MethodGet, "/api/v1/search?q=eth&limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCoinDetails(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchDetails(gomock.Any(), "bitcoin", "usd").Return(interfaces.CoinDetails{
		"id": "bitcoin",
		"market_data": map[string]interface{}{
			"ath":        map[string]interface{}{"usd": 69000.0},
			"max_supply": nil,
		},
	}, nil)

	resp := env.do(t, http.MethodGet, "/api/v1/coins/bitcoin", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Details map[string]interface{} `json:"details"`
			Stats   dashboard.Stats        `json:"stats"`
		} `json:"data"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "bitcoin", body.Data.Details["id"])
	require.NotNil(t, body.Data.Stats.AllTimeHigh)
	assert.Equal(t, 69000.0, *body.Data.Stats.AllTimeHigh)
	assert.Nil(t, body.Data.Stats.MaxSupply)
}

func TestCoinHistory(t *testing.T) {
	env := newTestEnv(t)
	points := []interfaces.PricePoint{{Date: "1/1/2024", Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Price: 42000}}
	env.client.EXPECT().FetchHistory(gomock.Any(), "bitcoin", "usd", 30).Return(points, nil)

	resp := env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/history?days=30", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data []interfaces.PricePoint `json:"data"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "1/1/2024", body.Data[0].Date)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/history?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCoinExchanges(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchTickers(gomock.Any(), "bitcoin").Return([]interfaces.Ticker{
		{Exchange: "Binance", Last: 100, Volume: 1000, TrustScore: "green", BidAskSpreadPercent: 0.1, Timestamp: "2024-01-01T00:00:00Z"},
		{Exchange: "Kraken", Last: 100.2, Volume: 800, TrustScore: "green", BidAskSpreadPercent: 0.1, Timestamp: "2024-01-01T00:00:00Z"},
	}, nil)
	env.client.EXPECT().FetchTickers(gomock.Any(), "missing").
		Return(nil, apierrors.NewAPIError("Cryptocurrency data not found.", http.StatusNotFound, apierrors.CodeNotFound))

	resp := env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/exchanges", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data exchanges.Comparison `json:"data"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Data.Exchanges, 2)
	assert.False(t, body.Data.Opportunity)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/missing/exchanges", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecentlyViewed(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/recent", []byte(`{"id":"bitcoin"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid errorResponse
	decode(t, resp, &invalid)
	assert.Equal(t, "validation", invalid.Error.Kind)

	for _, crypto := range testMarkets {
		encoded, err := json.Marshal(crypto)
		require.NoError(t, err)
		resp = env.do(t, http.MethodPost, "/api/v1/recent", encoded)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/recent", nil)
	var list []interfaces.Cryptocurrency
	decode(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "ethereum", list[0].ID)
	assert.Equal(t, "bitcoin", list[1].ID)

	resp = env.do(t, http.MethodDelete, "/api/v1/recent", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, env.recent.List())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "up", body.Services["coingecko"])
}

func TestMarketsStream(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().FetchTopMarkets(gomock.Any(), "usd", 50).Return(testMarkets, nil).Times(1)

	wsURL := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws/markets?currency=usd"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg marketsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Status != "fresh" {
			continue
		}
		assert.Equal(t, "usd", msg.Currency)
		require.Len(t, msg.Data, 2)
		assert.Equal(t, "$50,000.00", msg.Data[0].Display.Price)
		assert.NotNil(t, msg.UpdatedAt)
		assert.Nil(t, msg.Error)
		return
	}
}
