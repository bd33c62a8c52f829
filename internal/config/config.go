package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ProviderConfig represents a single external market data provider
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Config holds all configuration for the application
type Config struct {
	Port     string
	LogLevel string
	AppEnv   string

	// Persistence
	DatabaseURL string
	SeedOnBoot  bool

	// External market data providers
	ExchangeRateAPI ProviderConfig
	CoinGecko       ProviderConfig

	// Inbound rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppEnv:   getEnv("APP_ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SeedOnBoot:  getEnv("SEED_ON_BOOT", "true") == "true",

		ExchangeRateAPI: ProviderConfig{
			Name:    "exchangerate-api",
			BaseURL: getEnv("EXCHANGERATE_API_BASE_URL", "https://v6.exchangerate-api.com/v6"),
			APIKey:  exchangeRateAPIKey(),
			Timeout: time.Duration(mustAtoi(getEnv("EXCHANGERATE_API_TIMEOUT_SECONDS", "10"))) * time.Second,
		},
		CoinGecko: ProviderConfig{
			Name:    "coingecko",
			BaseURL: getEnv("COINGECKO_API_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:  getEnv("COINGECKO_API_KEY", ""),
			Timeout: time.Duration(mustAtoi(getEnv("COINGECKO_API_TIMEOUT_SECONDS", "10"))) * time.Second,
		},

		RateLimitEnabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequests: mustAtoi(getEnv("RATE_LIMIT_REQUESTS", "100")),
		RateLimitWindow:   time.Duration(mustAtoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))) * time.Second,
		RateLimitBurst:    mustAtoi(getEnv("RATE_LIMIT_BURST", "10")),
	}, nil
}

// exchangeRateAPIKey reads the exchangerate-api key, accepting both spellings
// deployments have used, falling back to the provider's demo key.
func exchangeRateAPIKey() string {
	if key := os.Getenv("EXCHANGERATE_API_KEY"); key != "" {
		return key
	}
	return getEnv("EXCHANGE_RATE_API_KEY", "demo_key")
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 60
	}
	return i
}
