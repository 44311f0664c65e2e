package coingecko

// marketChartResponse is the body of /coins/{id}/market_chart.
// Each point is a [unix millis, price] pair.
type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// tickersResponse is the body of /coins/{id}/tickers
type tickersResponse struct {
	Name    string         `json:"name"`
	Tickers []tickerRecord `json:"tickers"`
}

type tickerRecord struct {
	Market struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
	} `json:"market"`
	Last                   float64  `json:"last"`
	Volume                 float64  `json:"volume"`
	TrustScore             *string  `json:"trust_score"`
	BidAskSpreadPercentage *float64 `json:"bid_ask_spread_percentage"`
	TradeURL               *string  `json:"trade_url"`
	Timestamp              string   `json:"timestamp"`
	LastFetchAt            string   `json:"last_fetch_at"`
}

// errorBody is the error document some provider responses carry
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
