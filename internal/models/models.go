package models

import "time"

// APIResponse is the JSON envelope returned by every endpoint
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ConvertRequest is the body of POST /api/convert
type ConvertRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	UserID *uint   `json:"userId,omitempty"`
}

// ConvertResult is the payload of a successful conversion
type ConvertResult struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	FromAmount float64   `json:"fromAmount"`
	ToAmount   float64   `json:"toAmount"`
	Rate       float64   `json:"rate"`
	Timestamp  time.Time `json:"timestamp"`
}

// ForexQuote is a normalized forex pair as returned by the forex sync
type ForexQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Type      string  `json:"type"`
}

// CryptoQuote is a normalized coin as returned by the crypto sync
type CryptoQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume24h float64 `json:"volume24h"`
	MarketCap float64 `json:"marketCap"`
	Rank      int     `json:"rank"`
	Icon      string  `json:"icon"`
	Type      string  `json:"type"`
}

// ExchangeListing is a normalized exchange as returned by the exchange sync
type ExchangeListing struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	Country         string  `json:"country"`
	Volume24h       float64 `json:"volume24h"`
	TrustScore      int     `json:"trustScore"`
	YearEstablished int     `json:"yearEstablished"`
	Image           string  `json:"image"`
}

// MarketStats aggregates stored market data for the dashboard header
type MarketStats struct {
	MarketCap        float64 `json:"marketCap"`
	Volume24h        float64 `json:"volume24h"`
	ActiveCurrencies int     `json:"activeCurrencies"`
	ActiveExchanges  int     `json:"activeExchanges"`
	CryptoCurrencies int     `json:"cryptoCurrencies"`
	ForexPairs       int     `json:"forexPairs"`
}

// HealthCheck is the payload of GET /api/health
type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Database  string    `json:"database"`
}
