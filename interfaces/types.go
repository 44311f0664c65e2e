package interfaces

import "time"

// Cryptocurrency is a validated market snapshot of one asset.
// Values are never mutated after validation.
type Cryptocurrency struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            int     `json:"market_cap_rank"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	Image                    string  `json:"image"`
}

// CurrencyRate is a supported settlement currency.
// Rate is always 1: conversion only changes the currency label.
type CurrencyRate struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

// PricePoint is one point of a price history series
type PricePoint struct {
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// CoinDetails is the provider-defined details document, passed through untouched
type CoinDetails map[string]interface{}

// Ticker is one exchange market for a coin
type Ticker struct {
	Exchange            string  `json:"exchange"`
	Last                float64 `json:"last"`
	Volume              float64 `json:"volume"`
	TrustScore          string  `json:"trust_score"`
	BidAskSpreadPercent float64 `json:"bid_ask_spread_percentage"`
	TradeURL            string  `json:"trade_url,omitempty"`
	Timestamp           string  `json:"timestamp,omitempty"`
	LastFetchAt         string  `json:"last_fetch_at,omitempty"`
}
