package dashboard

import (
	"strings"

	"github.com/status-im/market-dashboard/interfaces"
)

// FilterMarkets keeps the assets whose name or symbol contains term, case-insensitively.
// An empty term keeps everything. limit <= 0 means no limit.
func FilterMarkets(markets []interfaces.Cryptocurrency, term string, limit int) []interfaces.Cryptocurrency {
	term = strings.ToLower(strings.TrimSpace(term))

	result := make([]interfaces.Cryptocurrency, 0)
	for _, crypto := range markets {
		if limit > 0 && len(result) >= limit {
			break
		}
		if term == "" ||
			strings.Contains(strings.ToLower(crypto.Name), term) ||
			strings.Contains(strings.ToLower(crypto.Symbol), term) {
			result = append(result, crypto)
		}
	}
	return result
}

// FindMarket returns the asset with id from markets
func FindMarket(markets []interfaces.Cryptocurrency, id string) (interfaces.Cryptocurrency, bool) {
	for _, crypto := range markets {
		if crypto.ID == id {
			return crypto, true
		}
	}
	return interfaces.Cryptocurrency{}, false
}
