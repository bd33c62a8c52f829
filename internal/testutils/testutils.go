package testutils

import (
	"io"
	"time"

	"market-dashboard-api/internal/config"
	"market-dashboard-api/internal/logger"
)

// MockLogger creates a silent logger for testing
func MockLogger() *logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Port:     "8080",
		LogLevel: "debug",
		AppEnv:   "test",

		ExchangeRateAPI: config.ProviderConfig{
			Name:    "exchangerate-api",
			BaseURL: "https://rates.test/v6",
			APIKey:  "test-api-key",
			Timeout: 5 * time.Second,
		},
		CoinGecko: config.ProviderConfig{
			Name:    "coingecko",
			BaseURL: "https://gecko.test/api/v3",
			Timeout: 5 * time.Second,
		},

		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,
	}
}
