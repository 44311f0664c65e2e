package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/status-im/market-dashboard/interfaces"
)

// Stats is the subset of a details document shown next to the price chart.
// Missing values are nil; a nil MaxSupply means the supply is unlimited.
type Stats struct {
	AllTimeHigh       *float64 `json:"ath"`
	AllTimeLow        *float64 `json:"atl"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	MaxSupply         *float64 `json:"max_supply"`
	Change1h          *float64 `json:"price_change_percentage_1h"`
	Change24h         *float64 `json:"price_change_percentage_24h"`
	Change7d          *float64 `json:"price_change_percentage_7d"`
	Change30d         *float64 `json:"price_change_percentage_30d"`
}

// MarketStats extracts the market statistics of details denominated in currency
func MarketStats(details interfaces.CoinDetails, currency string) Stats {
	currency = normalizeCurrency(currency)

	data, _ := details["market_data"].(map[string]interface{})
	if data == nil {
		return Stats{}
	}

	return Stats{
		AllTimeHigh:       inCurrency(data, "ath", currency),
		AllTimeLow:        inCurrency(data, "atl", currency),
		CirculatingSupply: number(data["circulating_supply"]),
		MaxSupply:         number(data["max_supply"]),
		Change1h:          inCurrency(data, "price_change_percentage_1h_in_currency", currency),
		Change24h:         number(data["price_change_percentage_24h"]),
		Change7d:          number(data["price_change_percentage_7d"]),
		Change30d:         number(data["price_change_percentage_30d"]),
	}
}

func inCurrency(data map[string]interface{}, field, currency string) *float64 {
	values, _ := data[field].(map[string]interface{})
	if values == nil {
		return nil
	}
	return number(values[currency])
}

func number(value interface{}) *float64 {
	if v, ok := value.(float64); ok {
		return &v
	}
	return nil
}

// Share is the weight of one asset among the top assets of a market
type Share struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
	Volume    float64 `json:"volume"`
	// Percent is the share of MarketCap in the total market cap of the returned assets
	Percent float64 `json:"percent"`
}

// Overview returns the first n assets of markets with their market cap share
func Overview(markets []interfaces.Cryptocurrency, n int) []Share {
	if n <= 0 || n > len(markets) {
		n = len(markets)
	}
	top := markets[:n]

	total := decimal.Zero
	for _, crypto := range top {
		total = total.Add(decimal.NewFromFloat(crypto.MarketCap))
	}

	result := make([]Share, 0, n)
	for _, crypto := range top {
		share := Share{
			ID:        crypto.ID,
			Symbol:    strings.ToUpper(crypto.Symbol),
			Price:     crypto.CurrentPrice,
			MarketCap: crypto.MarketCap,
			Volume:    crypto.TotalVolume,
		}
		if total.IsPositive() {
			share.Percent = decimal.NewFromFloat(crypto.MarketCap).
				Div(total).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}
		result = append(result, share)
	}
	return result
}
