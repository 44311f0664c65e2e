// Package exchanges compares the price of one coin across exchanges.
package exchanges

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/status-im/market-dashboard/interfaces"
)

const (
	// MaxTickers is the number of highest volume tickers kept
	MaxTickers = 8
	// ReliableSpreadPercent is the bid/ask spread below which an exchange is reliable
	ReliableSpreadPercent = 1.0
	// OpportunityPercent is the spread between best buy and best sell worth acting on
	OpportunityPercent = 0.5
	// DeviationPercent is the distance from the average price that flags an exchange
	DeviationPercent = 1.0

	TrustScoreGreen = "green"
)

// Price position of an exchange relative to the average
const (
	DeviationAbove   = "above"
	DeviationBelow   = "below"
	DeviationAverage = "average"
)

// ExchangePrice is the offer of one reliable exchange
type ExchangePrice struct {
	Exchange     string  `json:"exchange"`
	Price        float64 `json:"price"`
	Volume24h    float64 `json:"volume_24h"`
	BidAskSpread float64 `json:"bid_ask_spread"`
	TrustScore   string  `json:"trust_score"`
	TradeURL     string  `json:"trade_url,omitempty"`
	LastTradedAt string  `json:"last_traded_at,omitempty"`
	Deviation    string  `json:"deviation"`
}

// Comparison summarizes where to buy and sell a coin
type Comparison struct {
	// Exchanges are the reliable exchanges, cheapest first
	Exchanges    []ExchangePrice `json:"exchanges"`
	BestBuy      *ExchangePrice  `json:"best_buy,omitempty"`
	BestSell     *ExchangePrice  `json:"best_sell,omitempty"`
	AveragePrice float64         `json:"average_price"`
	// ArbitragePercent is (best sell - best buy) / best buy * 100
	ArbitragePercent float64 `json:"arbitrage_percent"`
	Opportunity      bool    `json:"opportunity"`
}

// TopTickers keeps green trust score tickers with a price, a volume and a timestamp,
// ordered by volume, highest first, at most MaxTickers of them
func TopTickers(tickers []interfaces.Ticker) []interfaces.Ticker {
	result := make([]interfaces.Ticker, 0, len(tickers))
	for _, t := range tickers {
		if t.TrustScore == TrustScoreGreen && t.Last != 0 && t.Volume != 0 && t.Timestamp != "" {
			result = append(result, t)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Volume > result[j].Volume
	})

	if len(result) > MaxTickers {
		result = result[:MaxTickers]
	}
	return result
}

// Compare builds the comparison of the top tickers
func Compare(tickers []interfaces.Ticker) Comparison {
	top := TopTickers(tickers)

	prices := make([]ExchangePrice, 0, len(top))
	for _, t := range top {
		if t.BidAskSpreadPercent >= ReliableSpreadPercent {
			continue
		}
		prices = append(prices, ExchangePrice{
			Exchange:     t.Exchange,
			Price:        t.Last,
			Volume24h:    t.Volume,
			BidAskSpread: t.BidAskSpreadPercent,
			TrustScore:   t.TrustScore,
			TradeURL:     t.TradeURL,
			LastTradedAt: t.LastFetchAt,
		})
	}

	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Price < prices[j].Price
	})

	comparison := Comparison{Exchanges: prices}
	if len(prices) == 0 {
		return comparison
	}

	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(decimal.NewFromFloat(p.Price))
	}
	average := sum.Div(decimal.NewFromInt(int64(len(prices))))
	comparison.AveragePrice = average.InexactFloat64()

	for i := range prices {
		prices[i].Deviation = deviation(decimal.NewFromFloat(prices[i].Price), average)
	}

	buy := prices[0]
	sell := prices[len(prices)-1]
	comparison.BestBuy = &buy
	comparison.BestSell = &sell

	if buy.Price > 0 {
		buyPrice := decimal.NewFromFloat(buy.Price)
		arbitrage := decimal.NewFromFloat(sell.Price).Sub(buyPrice).Div(buyPrice).Mul(decimal.NewFromInt(100))
		comparison.ArbitragePercent = arbitrage.Round(4).InexactFloat64()
		comparison.Opportunity = arbitrage.GreaterThan(decimal.NewFromFloat(OpportunityPercent))
	}

	return comparison
}

func deviation(price, average decimal.Decimal) string {
	if average.IsZero() {
		return DeviationAverage
	}
	diff := price.Sub(average).Div(average).Mul(decimal.NewFromInt(100))
	limit := decimal.NewFromFloat(DeviationPercent)
	switch {
	case diff.GreaterThan(limit):
		return DeviationAbove
	case diff.LessThan(limit.Neg()):
		return DeviationBelow
	default:
		return DeviationAverage
	}
}
