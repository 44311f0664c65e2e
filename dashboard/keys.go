package dashboard

import (
	"strconv"
	"strings"

	"github.com/status-im/market-dashboard/metrics"
	"github.com/status-im/market-dashboard/query"
)

func normalizeCurrency(currency string) string {
	return strings.ToLower(strings.TrimSpace(currency))
}

// MarketsKey identifies the top markets in currency
func MarketsKey(currency string) query.Key {
	return query.Key{Resource: metrics.ServiceMarkets, Currency: normalizeCurrency(currency)}
}

// CurrencyRatesKey identifies the supported currencies
func CurrencyRatesKey() query.Key {
	return query.Key{Resource: metrics.ServiceCurrencyRates}
}

// DetailsKey identifies the details of a coin in currency
func DetailsKey(id, currency string) query.Key {
	return query.Key{Resource: metrics.ServiceDetails, Currency: normalizeCurrency(currency), ID: id}
}

// HistoryKey identifies the price history of a coin
func HistoryKey(id, currency string, days int) query.Key {
	return query.Key{Resource: metrics.ServiceHistory, Currency: normalizeCurrency(currency), ID: id, Extra: strconv.Itoa(days)}
}

// TickersKey identifies the exchange tickers of a coin
func TickersKey(id string) query.Key {
	return query.Key{Resource: metrics.ServiceTickers, ID: id}
}
