package e2etest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "e2etest")

// MockServer is a fake CoinGecko API. Responses can be replaced per path and a failure
// status can be forced for every request.
type MockServer struct {
	server *httptest.Server

	mu          sync.RWMutex
	responses   map[string]string
	forceStatus int
	requests    map[string]int
}

// NewMockServer creates and starts a fake provider with default data
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: map[string]string{
			"/api/v3/coins/markets":                  defaultMarketsData(),
			"/api/v3/simple/supported_vs_currencies": `["usd","eur","gbp","btc"]`,
			"/api/v3/coins/bitcoin":                  defaultBitcoinDetails(),
			"/api/v3/coins/bitcoin/market_chart":     defaultMarketChartData(),
			"/api/v3/coins/bitcoin/tickers":          defaultTickersData(),
		},
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", ms.handleRequest)
	ms.server = httptest.NewServer(mux)

	return ms
}

// GetURL returns the base URL of the fake provider
func (ms *MockServer) GetURL() string {
	return ms.server.URL
}

// Close stops the fake provider
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse replaces the body served for path
func (ms *MockServer) SetResponse(path, body string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = body
}

// ForceStatus makes every request fail with status; 0 restores normal answers
func (ms *MockServer) ForceStatus(status int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.forceStatus = status
}

// Requests returns how many requests were received for path
func (ms *MockServer) Requests(path string) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.requests[path]
}

func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	ms.mu.Lock()
	ms.requests[path]++
	status := ms.forceStatus
	body, ok := ms.responses[path]
	ms.mu.Unlock()

	log.Debugf("MockServer: Received request for path: %s", path)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case status != 0:
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":"forced %d"}`, status)
	case !ok:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"coin not found"}`)
	default:
		fmt.Fprint(w, body)
	}
}

func defaultMarketsData() string {
	return strings.TrimSpace(`[
		{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":50000,"market_cap":1000000000000,"market_cap_rank":1,"total_volume":30000000000,"price_change_percentage_24h":5.5,"image":"https://coin-images.coingecko.com/coins/images/1/large/bitcoin.png?1696501400"},
		{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000,"market_cap":500000000000,"market_cap_rank":2,"total_volume":20000000000,"price_change_percentage_24h":-2.5,"image":"https://coin-images.coingecko.com/coins/images/279/large/ethereum.png?1696501628"}
	]`)
}

func defaultBitcoinDetails() string {
	return `{
		"id":"bitcoin","symbol":"btc","name":"Bitcoin",
		"market_data":{
			"ath":{"usd":69000},
			"atl":{"usd":67.81},
			"circulating_supply":19500000,
			"max_supply":21000000,
			"price_change_percentage_1h_in_currency":{"usd":0.2},
			"price_change_percentage_24h":5.5,
			"price_change_percentage_7d":10,
			"price_change_percentage_30d":-3
		}
	}`
}

func defaultMarketChartData() string {
	return `{"prices":[[1704067200000,42000.5],[1704153600000,43000.25]]}`
}

func defaultTickersData() string {
	return `{"name":"Bitcoin","tickers":[
		{"market":{"name":"Binance","identifier":"binance"},"last":50000,"volume":1000,"trust_score":"green","bid_ask_spread_percentage":0.01,"trade_url":"https://binance.com","timestamp":"2024-01-01T00:00:00+00:00","last_fetch_at":"2024-01-01T00:00:00+00:00"},
		{"market":{"name":"Kraken","identifier":"kraken"},"last":50500,"volume":500,"trust_score":"green","bid_ask_spread_percentage":0.02,"trade_url":null,"timestamp":"2024-01-01T00:00:00+00:00","last_fetch_at":"2024-01-01T00:00:00+00:00"},
		{"market":{"name":"Sketchy","identifier":"sketchy"},"last":40000,"volume":5000,"trust_score":"red","bid_ask_spread_percentage":3,"trade_url":null,"timestamp":"2024-01-01T00:00:00+00:00","last_fetch_at":"2024-01-01T00:00:00+00:00"}
	]}`
}
