package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/interfaces"
)

type coinDetailsResponse struct {
	Details interfaces.CoinDetails `json:"details"`
	Stats   dashboard.Stats        `json:"stats"`
}

// handleCoinDetails responds with the provider details of a coin and its market stats
func (s *Server) handleCoinDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	currency := s.currencyParam(r)

	details, snap, err := s.dashboard.Details(r.Context(), id, currency, getBoolParam(r, "refresh"))
	s.sendResult(w, snap, err, func() interface{} {
		return coinDetailsResponse{
			Details: details,
			Stats:   dashboard.MarketStats(details, currency),
		}
	})
}

// handleCoinHistory responds with the daily prices of a coin
func (s *Server) handleCoinHistory(w http.ResponseWriter, r *http.Request) {
	days, err := getIntParam(r, "days", 0)
	if err != nil {
		s.sendBadRequest(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	history, snap, err := s.dashboard.History(r.Context(), id, s.currencyParam(r), days, getBoolParam(r, "refresh"))
	s.sendResult(w, snap, err, func() interface{} {
		return history
	})
}

// handleCoinExchanges responds with the exchange price comparison of a coin
func (s *Server) handleCoinExchanges(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	comparison, snap, err := s.dashboard.Exchanges(r.Context(), id, getBoolParam(r, "refresh"))
	s.sendResult(w, snap, err, func() interface{} {
		return comparison
	})
}
