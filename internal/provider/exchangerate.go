package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"market-dashboard-api/internal/config"
	"market-dashboard-api/internal/logger"
)

// ExchangeRateClient talks to the exchangerate-api.com v6 endpoint
type ExchangeRateClient struct {
	configuration config.ProviderConfig
	logger        *logger.Logger
	httpClient    *http.Client
}

// LatestRatesResponse is the v6 standard response shape.
// See https://www.exchangerate-api.com/docs/standard-requests
type LatestRatesResponse struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// NewExchangeRateClient creates a client for the configured endpoint
func NewExchangeRateClient(configuration config.ProviderConfig, log *logger.Logger) *ExchangeRateClient {
	return &ExchangeRateClient{
		configuration: configuration,
		logger:        log,
		httpClient: &http.Client{
			Timeout: configuration.Timeout,
		},
	}
}

// LatestRates fetches the latest conversion rates for a base currency
func (client *ExchangeRateClient) LatestRates(ctx context.Context, baseCurrency string) (*LatestRatesResponse, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", client.configuration.BaseURL, client.configuration.APIKey, baseCurrency)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: client.configuration.Name, StatusCode: response.StatusCode}
	}

	var decoded LatestRatesResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	if decoded.Result != "success" {
		return nil, fmt.Errorf("rates request failed with result=%s error-type=%s", decoded.Result, decoded.ErrorType)
	}
	if len(decoded.ConversionRates) == 0 {
		return nil, fmt.Errorf("invalid rates response: no conversion rates")
	}

	client.logger.WithComponent("exchangerate").
		Debugf("fetched %d conversion rates for base %s", len(decoded.ConversionRates), baseCurrency)

	return &decoded, nil
}
