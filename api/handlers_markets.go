package api

import (
	"net/http"
	"strings"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/format"
	"github.com/status-im/market-dashboard/interfaces"
)

const (
	defaultSearchLimit   = 10
	defaultOverviewLimit = 5
)

// display holds the formatted values of a market card
type display struct {
	Price     string `json:"price"`
	Change24h string `json:"change_24h"`
	Trend     string `json:"trend"`
	MarketCap string `json:"market_cap"`
	Volume    string `json:"volume"`
}

type marketItem struct {
	interfaces.Cryptocurrency
	Display display `json:"display"`
}

func toMarketItems(markets []interfaces.Cryptocurrency, currency string) []marketItem {
	currency = strings.ToUpper(currency)
	items := make([]marketItem, 0, len(markets))
	for _, crypto := range markets {
		items = append(items, marketItem{
			Cryptocurrency: crypto,
			Display: display{
				Price:     format.Price(crypto.CurrentPrice, currency),
				Change24h: format.Percentage(crypto.PriceChangePercentage24h),
				Trend:     format.Trend(crypto.PriceChangePercentage24h),
				MarketCap: format.Price(crypto.MarketCap, currency),
				Volume:    format.Price(crypto.TotalVolume, currency),
			},
		})
	}
	return items
}

// handleMarkets responds with the top assets by market cap
func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	currency := s.currencyParam(r)
	markets, snap, err := s.dashboard.TopMarkets(r.Context(), currency, getBoolParam(r, "refresh"))
	s.sendResult(w, snap, err, func() interface{} {
		return toMarketItems(markets, currency)
	})
}

// handleOverview responds with the market cap share of the top assets
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	limit, err := getIntParam(r, "limit", defaultOverviewLimit)
	if err != nil {
		s.sendBadRequest(w, err)
		return
	}

	markets, snap, err := s.dashboard.TopMarkets(r.Context(), s.currencyParam(r), getBoolParam(r, "refresh"))
	s.sendResult(w, snap, err, func() interface{} {
		return dashboard.Overview(markets, limit)
	})
}

// handleCurrencies responds with the supported settlement currencies
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	rates, snap, err := s.dashboard.CurrencyRates(r.Context(), getBoolParam(r, "refresh"))
	s.sendResult(w, snap, err, func() interface{} {
		return rates
	})
}

// handleSearch filters the top assets by name or symbol
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := getIntParam(r, "limit", defaultSearchLimit)
	if err != nil {
		s.sendBadRequest(w, err)
		return
	}

	currency := s.currencyParam(r)
	results, snap, err := s.dashboard.Search(r.Context(), currency, r.URL.Query().Get("q"), limit)
	s.sendResult(w, snap, err, func() interface{} {
		return toMarketItems(results, currency)
	})
}
