package models

import "time"

// Quote holds a live price snapshot for a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	PreviousClose float64 `json:"previous_close"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        int64   `json:"volume"`
}

// Mover is a stock entry with a signed percentage change, used in
// gainers and losers lists.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	ChangePercent float64 `json:"change_percent"`
}

// MarketTrends holds the gainers and losers lists returned together.
type MarketTrends struct {
	Gainers []Mover `json:"gainers"`
	Losers  []Mover `json:"losers"`
}

// MarketSnapshot is the single-slot market view: trends plus popular
// stocks, overwritten wholesale on each refresh.
type MarketSnapshot struct {
	Trends      *MarketTrends
	Popular     []Quote
	LastUpdated time.Time
}

// SearchResult is one symbol/name match from the search endpoint.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
}
