package models

import "time"

// Quote is a transient price snapshot for one symbol. Supplied per query,
// persisted only via the portfolio's price cache.
type Quote struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name,omitempty"`
	CurrentPrice     float64   `json:"currentPrice"`
	PreviousClose    float64   `json:"previousClose"`
	Change           float64   `json:"change"`
	ChangePercent    float64   `json:"changePercent"`
	High52Week       float64   `json:"high52Week"`
	Low52Week        float64   `json:"low52Week"`
	YTDChangePercent float64   `json:"ytdChangePercent"`
	Timestamp        time.Time `json:"timestamp"`
}

// YTDStartPrice derives the implied price at the start of the calendar year
// from the current price and the YTD percent change.
func (q *Quote) YTDStartPrice() float64 {
	return DeriveYTDStartPrice(q.CurrentPrice, q.YTDChangePercent)
}

// DeriveYTDStartPrice computes currentPrice / (1 + ytdChangePercent/100).
// A zero ytdChangePercent returns the current price unchanged.
func DeriveYTDStartPrice(currentPrice, ytdChangePercent float64) float64 {
	if ytdChangePercent == 0 {
		return currentPrice
	}
	denom := 1 + ytdChangePercent/100
	if denom == 0 {
		return currentPrice
	}
	return currentPrice / denom
}
