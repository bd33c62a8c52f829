package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"market-dashboard-api/internal/config"
	"market-dashboard-api/internal/logger"
)

// CoinGeckoClient talks to the CoinGecko v3 REST API
type CoinGeckoClient struct {
	configuration config.ProviderConfig
	logger        *logger.Logger
	httpClient    *http.Client
}

// CoinMarket is one entry of /coins/markets. Numeric fields are pointers
// because CoinGecko omits them for thinly traded coins.
type CoinMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            int      `json:"market_cap_rank"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	CirculatingSupply        *float64 `json:"circulating_supply"`
	TotalSupply              *float64 `json:"total_supply"`
	MaxSupply                *float64 `json:"max_supply"`
}

// ExchangeInfo is one entry of /exchanges
type ExchangeInfo struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	YearEstablished   int      `json:"year_established"`
	Country           string   `json:"country"`
	Description       string   `json:"description"`
	URL               string   `json:"url"`
	Image             string   `json:"image"`
	TrustScore        int      `json:"trust_score"`
	TradeVolume24hBTC *float64 `json:"trade_volume_24h_btc"`
}

// NewCoinGeckoClient creates a client for the configured endpoint
func NewCoinGeckoClient(configuration config.ProviderConfig, log *logger.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		configuration: configuration,
		logger:        log,
		httpClient: &http.Client{
			Timeout: configuration.Timeout,
		},
	}
}

// CoinMarkets fetches one page of coins ordered by market cap descending
func (client *CoinGeckoClient) CoinMarkets(ctx context.Context, vsCurrency string, perPage, page int) ([]CoinMarket, error) {
	query := url.Values{}
	query.Set("vs_currency", vsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("sparkline", "false")
	query.Set("price_change_percentage", "24h")

	var coins []CoinMarket
	if err := client.getJSON(ctx, "/coins/markets", query, &coins); err != nil {
		return nil, err
	}

	client.logger.WithComponent("coingecko").Debugf("fetched %d coin markets", len(coins))
	return coins, nil
}

// Exchanges fetches one page of exchange listings
func (client *CoinGeckoClient) Exchanges(ctx context.Context, perPage, page int) ([]ExchangeInfo, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))

	var exchanges []ExchangeInfo
	if err := client.getJSON(ctx, "/exchanges", query, &exchanges); err != nil {
		return nil, err
	}

	client.logger.WithComponent("coingecko").Debugf("fetched %d exchanges", len(exchanges))
	return exchanges, nil
}

// getJSON performs a GET against the API and decodes the JSON body
func (client *CoinGeckoClient) getJSON(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	requestURL := client.configuration.BaseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if client.configuration.APIKey != "" {
		request.Header.Set("x-cg-demo-api-key", client.configuration.APIKey)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return &APIError{Provider: client.configuration.Name, StatusCode: response.StatusCode}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
