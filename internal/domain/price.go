package domain

import "time"

// PriceQuote is a point-in-time market quote for a ticker. Unknown or
// delisted tickers are reported in-band through Error rather than
// failing the request.
type PriceQuote struct {
	Ticker        string    `json:"ticker"`
	CurrentPrice  float64   `json:"current_price,omitempty"`
	ChangeAmount  float64   `json:"change_amount,omitempty"`
	ChangePercent float64   `json:"change_percent,omitempty"`
	Volume        int64     `json:"volume,omitempty"`
	DayHigh       float64   `json:"day_high,omitempty"`
	DayLow        float64   `json:"day_low,omitempty"`
	PrevClose     float64   `json:"prev_close,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
	Error         string    `json:"error,omitempty"`
}

// Sparkline is a short closing-price history for chart rendering.
type Sparkline struct {
	Ticker    string    `json:"ticker"`
	Prices    []float64 `json:"prices"`
	Days      int       `json:"days"`
	UpdatedAt time.Time `json:"updated_at"`
}
