package testutils

import (
	"net/http"
	"net/http/httptest"
	"strings"
)

// MockExchangeRateServer simulates the exchangerate-api v6 endpoint
type MockExchangeRateServer struct {
	server *httptest.Server

	// StatusCode overrides the response status when non-zero
	StatusCode int
	// Body overrides the response body when non-empty
	Body string
}

// NewMockExchangeRateServer creates a server answering /<key>/latest/<base>
func NewMockExchangeRateServer() *MockExchangeRateServer {
	mock := &MockExchangeRateServer{}
	mock.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if mock.StatusCode != 0 && mock.StatusCode != http.StatusOK {
			writer.WriteHeader(mock.StatusCode)
			return
		}

		writer.Header().Set("Content-Type", "application/json")
		if mock.Body != "" {
			_, _ = writer.Write([]byte(mock.Body))
			return
		}

		_, _ = writer.Write([]byte(`{
			"result": "success",
			"base_code": "USD",
			"time_last_update_unix": 1700000000,
			"conversion_rates": {
				"USD": 1, "EUR": 0.92, "GBP": 0.79, "JPY": 149.5, "CHF": 0.88,
				"CAD": 1.36, "AUD": 1.52, "NZD": 1.66, "SEK": 10.4, "NOK": 10.6, "DKK": 6.86
			}
		}`))
	}))
	return mock
}

// URL returns the base URL of the mock server
func (mock *MockExchangeRateServer) URL() string {
	return mock.server.URL
}

// Close shuts down the mock server
func (mock *MockExchangeRateServer) Close() {
	mock.server.Close()
}

// MockCoinGeckoServer simulates the CoinGecko v3 endpoints used by the syncs
type MockCoinGeckoServer struct {
	server *httptest.Server

	StatusCode    int
	MarketsBody   string
	ExchangesBody string
}

// NewMockCoinGeckoServer creates a server answering /coins/markets and /exchanges
func NewMockCoinGeckoServer() *MockCoinGeckoServer {
	mock := &MockCoinGeckoServer{}
	mock.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if mock.StatusCode != 0 && mock.StatusCode != http.StatusOK {
			writer.WriteHeader(mock.StatusCode)
			return
		}

		writer.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(request.URL.Path, "/coins/markets"):
			body := mock.MarketsBody
			if body == "" {
				body = `[
					{
						"id": "bitcoin", "symbol": "btc", "name": "Bitcoin",
						"image": "https://img.test/btc.png",
						"current_price": 67000.5, "market_cap": 1300000000000,
						"market_cap_rank": 1, "total_volume": 35000000000,
						"price_change_percentage_24h": 2.4,
						"circulating_supply": 19700000
					},
					{
						"id": "ethereum", "symbol": "eth", "name": "Ethereum",
						"image": "https://img.test/eth.png",
						"current_price": 3500.25, "market_cap": 420000000000,
						"market_cap_rank": 2, "total_volume": 18000000000,
						"price_change_percentage_24h": -1.1
					}
				]`
			}
			_, _ = writer.Write([]byte(body))

		case strings.HasSuffix(request.URL.Path, "/exchanges"):
			body := mock.ExchangesBody
			if body == "" {
				body = `[
					{
						"id": "binance", "name": "Binance", "year_established": 2017,
						"country": "Cayman Islands", "url": "https://www.binance.com",
						"image": "https://img.test/binance.png", "trust_score": 10,
						"trade_volume_24h_btc": 250000.5
					}
				]`
			}
			_, _ = writer.Write([]byte(body))

		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	return mock
}

// URL returns the base URL of the mock server
func (mock *MockCoinGeckoServer) URL() string {
	return mock.server.URL
}

// Close shuts down the mock server
func (mock *MockCoinGeckoServer) Close() {
	mock.server.Close()
}
