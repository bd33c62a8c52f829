package service

import (
	"context"
	"errors"
	"testing"

	"market-dashboard-api/internal/provider"
	"market-dashboard-api/internal/store"
	"market-dashboard-api/internal/testutils"
)

type fakeForexProvider struct {
	response *provider.LatestRatesResponse
	err      error
	calls    int
}

func (fake *fakeForexProvider) LatestRates(_ context.Context, _ string) (*provider.LatestRatesResponse, error) {
	fake.calls++
	if fake.err != nil {
		return nil, fake.err
	}
	return fake.response, nil
}

type fakeCryptoProvider struct {
	coins        []provider.CoinMarket
	exchanges    []provider.ExchangeInfo
	coinsErr     error
	exchangesErr error
}

func (fake *fakeCryptoProvider) CoinMarkets(_ context.Context, _ string, _, _ int) ([]provider.CoinMarket, error) {
	if fake.coinsErr != nil {
		return nil, fake.coinsErr
	}
	return fake.coins, nil
}

func (fake *fakeCryptoProvider) Exchanges(_ context.Context, _, _ int) ([]provider.ExchangeInfo, error) {
	if fake.exchangesErr != nil {
		return nil, fake.exchangesErr
	}
	return fake.exchanges, nil
}

func floatPtr(value float64) *float64 {
	return &value
}

func fullRates() map[string]float64 {
	return map[string]float64{
		"EUR": 0.92, "GBP": 0.79, "JPY": 149.5, "CHF": 0.88, "CAD": 1.36,
		"AUD": 1.52, "NZD": 1.66, "SEK": 10.4, "NOK": 10.6, "DKK": 6.86,
	}
}

func TestSyncForex(t *testing.T) {
	memStore := testutils.NewMemStore()
	forexProvider := &fakeForexProvider{
		response: &provider.LatestRatesResponse{
			Result:          "success",
			BaseCode:        "USD",
			ConversionRates: fullRates(),
		},
	}
	marketService := NewMarketService(memStore, forexProvider, &fakeCryptoProvider{}, testutils.MockLogger())

	quotes, err := marketService.SyncForex(context.Background())
	if err != nil {
		t.Fatalf("SyncForex() error = %v", err)
	}
	if len(quotes) != len(majorCurrencies) {
		t.Fatalf("expected %d quotes, got %d", len(majorCurrencies), len(quotes))
	}
	if memStore.CurrencyCount() != len(majorCurrencies) {
		t.Errorf("expected %d stored currencies, got %d", len(majorCurrencies), memStore.CurrencyCount())
	}

	stored, err := memStore.GetCurrency(context.Background(), "USD/EUR")
	if err != nil {
		t.Fatalf("GetCurrency(USD/EUR) error = %v", err)
	}
	if stored.Type != store.CurrencyTypeForex {
		t.Errorf("expected type %q, got %q", store.CurrencyTypeForex, stored.Type)
	}
	if stored.CurrentPrice != "0.92" {
		t.Errorf("expected stored price 0.92, got %s", stored.CurrentPrice)
	}
	if stored.Change24h == nil || *stored.Change24h != "0" {
		t.Errorf("expected placeholder change \"0\", got %v", stored.Change24h)
	}
}

func TestSyncForexSkipsMissingRate(t *testing.T) {
	partial := fullRates()
	delete(partial, "DKK")

	memStore := testutils.NewMemStore()
	forexProvider := &fakeForexProvider{
		response: &provider.LatestRatesResponse{
			Result:          "success",
			BaseCode:        "USD",
			ConversionRates: partial,
		},
	}
	marketService := NewMarketService(memStore, forexProvider, &fakeCryptoProvider{}, testutils.MockLogger())

	quotes, err := marketService.SyncForex(context.Background())
	if err != nil {
		t.Fatalf("SyncForex() error = %v", err)
	}
	if len(quotes) != len(majorCurrencies)-1 {
		t.Fatalf("expected %d quotes, got %d", len(majorCurrencies)-1, len(quotes))
	}
	if _, err := memStore.GetCurrency(context.Background(), "USD/DKK"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected USD/DKK to be skipped, got err = %v", err)
	}
}

func TestSyncForexRateLimited(t *testing.T) {
	memStore := testutils.NewMemStore()
	forexProvider := &fakeForexProvider{
		err: &provider.APIError{Provider: "exchangerate-api", StatusCode: 429},
	}
	marketService := NewMarketService(memStore, forexProvider, &fakeCryptoProvider{}, testutils.MockLogger())

	_, err := marketService.SyncForex(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var serviceError *ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if serviceError.Type != ErrorTypeRateLimited {
		t.Errorf("expected ErrorTypeRateLimited, got %v", serviceError.Type)
	}
	if memStore.CurrencyCount() != 0 {
		t.Errorf("expected zero upserts after provider failure, got %d", memStore.CurrencyCount())
	}
}

func TestSyncForexStoreFailureKeepsEarlierUpserts(t *testing.T) {
	memStore := testutils.NewMemStore()
	memStore.FailUpsertAfter = 3
	forexProvider := &fakeForexProvider{
		response: &provider.LatestRatesResponse{
			Result:          "success",
			BaseCode:        "USD",
			ConversionRates: fullRates(),
		},
	}
	marketService := NewMarketService(memStore, forexProvider, &fakeCryptoProvider{}, testutils.MockLogger())

	_, err := marketService.SyncForex(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var serviceError *ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if serviceError.Type != ErrorTypeStoreUnavailable {
		t.Errorf("expected ErrorTypeStoreUnavailable, got %v", serviceError.Type)
	}
	// Upserts before the failure are committed individually and stay.
	if memStore.CurrencyCount() != 3 {
		t.Errorf("expected 3 committed upserts, got %d", memStore.CurrencyCount())
	}
}

func TestSyncCrypto(t *testing.T) {
	memStore := testutils.NewMemStore()
	cryptoProvider := &fakeCryptoProvider{
		coins: []provider.CoinMarket{
			{
				ID:                       "bitcoin",
				Symbol:                   "btc",
				Name:                     "Bitcoin",
				Image:                    "https://img.test/btc.png",
				CurrentPrice:             floatPtr(67000.5),
				MarketCap:                floatPtr(1300000000000),
				MarketCapRank:            1,
				TotalVolume:              floatPtr(35000000000),
				PriceChangePercentage24h: floatPtr(2.4),
				CirculatingSupply:        floatPtr(19700000),
			},
			{
				ID:            "newcoin",
				Symbol:        "nwc",
				Name:          "NewCoin",
				MarketCapRank: 42,
				// current_price and the other numerics omitted upstream
			},
		},
	}
	marketService := NewMarketService(memStore, &fakeForexProvider{}, cryptoProvider, testutils.MockLogger())

	quotes, err := marketService.SyncCrypto(context.Background())
	if err != nil {
		t.Fatalf("SyncCrypto() error = %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}

	bitcoin, err := memStore.GetCurrency(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("GetCurrency(BTC) error = %v", err)
	}
	if bitcoin.CurrentPrice != "67000.5" {
		t.Errorf("expected BTC price 67000.5, got %s", bitcoin.CurrentPrice)
	}
	if bitcoin.Metadata == nil || bitcoin.Metadata.Rank != 1 {
		t.Errorf("expected BTC metadata rank 1, got %+v", bitcoin.Metadata)
	}

	newCoin, err := memStore.GetCurrency(context.Background(), "NWC")
	if err != nil {
		t.Fatalf("GetCurrency(NWC) error = %v", err)
	}
	if newCoin.CurrentPrice != "0" {
		t.Errorf("expected missing price to default to \"0\", got %s", newCoin.CurrentPrice)
	}
	if newCoin.MarketCap == nil || *newCoin.MarketCap != "0" {
		t.Errorf("expected missing market cap to default to \"0\", got %v", newCoin.MarketCap)
	}

	// One time-series sample per coin.
	if memStore.MarketPointCount() != 2 {
		t.Errorf("expected 2 market points, got %d", memStore.MarketPointCount())
	}
}

func TestSyncCryptoQuarantinesEmptySymbol(t *testing.T) {
	memStore := testutils.NewMemStore()
	cryptoProvider := &fakeCryptoProvider{
		coins: []provider.CoinMarket{
			{ID: "broken-coin", Symbol: "", Name: "Broken"},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: floatPtr(3500)},
		},
	}
	marketService := NewMarketService(memStore, &fakeForexProvider{}, cryptoProvider, testutils.MockLogger())

	quotes, err := marketService.SyncCrypto(context.Background())
	if err != nil {
		t.Fatalf("SyncCrypto() error = %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	if quotes[0].Symbol != "ETH" {
		t.Errorf("expected symbol ETH, got %s", quotes[0].Symbol)
	}
	if memStore.CurrencyCount() != 1 {
		t.Errorf("expected 1 stored currency, got %d", memStore.CurrencyCount())
	}
}

func TestSyncCryptoMarketPointFailureDoesNotFailSync(t *testing.T) {
	memStore := testutils.NewMemStore()
	memStore.InsertPointErr = errors.New("disk full")
	cryptoProvider := &fakeCryptoProvider{
		coins: []provider.CoinMarket{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: floatPtr(67000)},
		},
	}
	marketService := NewMarketService(memStore, &fakeForexProvider{}, cryptoProvider, testutils.MockLogger())

	quotes, err := marketService.SyncCrypto(context.Background())
	if err != nil {
		t.Fatalf("SyncCrypto() error = %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	if memStore.MarketPointCount() != 0 {
		t.Errorf("expected no market points after insert failure, got %d", memStore.MarketPointCount())
	}
}

func TestSyncExchanges(t *testing.T) {
	memStore := testutils.NewMemStore()
	cryptoProvider := &fakeCryptoProvider{
		exchanges: []provider.ExchangeInfo{
			{
				ID:                "binance",
				Name:              "Binance",
				Country:           "Cayman Islands",
				URL:               "https://www.binance.com",
				TrustScore:        10,
				YearEstablished:   2017,
				TradeVolume24hBTC: floatPtr(250000),
			},
			{ID: "", Name: "Nameless Venue"},
		},
	}
	marketService := NewMarketService(memStore, &fakeForexProvider{}, cryptoProvider, testutils.MockLogger())

	listings, err := marketService.SyncExchanges(context.Background())
	if err != nil {
		t.Fatalf("SyncExchanges() error = %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing after quarantine, got %d", len(listings))
	}
	if listings[0].ID != "binance" {
		t.Errorf("expected id binance, got %s", listings[0].ID)
	}

	exchanges, err := memStore.GetAllExchanges(context.Background())
	if err != nil {
		t.Fatalf("GetAllExchanges() error = %v", err)
	}
	if len(exchanges) != 1 {
		t.Fatalf("expected 1 stored exchange, got %d", len(exchanges))
	}
	if exchanges[0].Name != "binance" || exchanges[0].DisplayName != "Binance" {
		t.Errorf("unexpected stored exchange %+v", exchanges[0])
	}
}

func TestSyncExchangesUpstreamUnavailable(t *testing.T) {
	memStore := testutils.NewMemStore()
	cryptoProvider := &fakeCryptoProvider{exchangesErr: errors.New("connection refused")}
	marketService := NewMarketService(memStore, &fakeForexProvider{}, cryptoProvider, testutils.MockLogger())

	_, err := marketService.SyncExchanges(context.Background())
	var serviceError *ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if serviceError.Type != ErrorTypeUpstreamUnavailable {
		t.Errorf("expected ErrorTypeUpstreamUnavailable, got %v", serviceError.Type)
	}
}

func TestMarketStats(t *testing.T) {
	memStore := testutils.NewMemStore()
	ctx := context.Background()

	marketCapBTC, volumeBTC := "1000", "100"
	marketCapETH, volumeETH := "500", "50"
	change := "0"
	mustUpsert(t, memStore, store.CurrencyUpsert{
		Symbol: "BTC", Name: "Bitcoin", Type: store.CurrencyTypeCrypto,
		CurrentPrice: "67000", MarketCap: &marketCapBTC, Volume24h: &volumeBTC, IsActive: true,
	})
	mustUpsert(t, memStore, store.CurrencyUpsert{
		Symbol: "ETH", Name: "Ethereum", Type: store.CurrencyTypeCrypto,
		CurrentPrice: "3500", MarketCap: &marketCapETH, Volume24h: &volumeETH, IsActive: true,
	})
	mustUpsert(t, memStore, store.CurrencyUpsert{
		Symbol: "USD/EUR", Name: "US Dollar to EUR", Type: store.CurrencyTypeForex,
		CurrentPrice: "0.92", Change24h: &change, IsActive: true,
	})
	if _, err := memStore.UpsertExchange(ctx, store.ExchangeUpsert{
		Name: "binance", DisplayName: "Binance", Volume24h: "250000", IsActive: true,
	}); err != nil {
		t.Fatalf("UpsertExchange() error = %v", err)
	}

	marketService := NewMarketService(memStore, &fakeForexProvider{}, &fakeCryptoProvider{}, testutils.MockLogger())
	stats, err := marketService.MarketStats(ctx)
	if err != nil {
		t.Fatalf("MarketStats() error = %v", err)
	}

	if stats.MarketCap != 1500 {
		t.Errorf("expected market cap 1500, got %v", stats.MarketCap)
	}
	if stats.Volume24h != 150 {
		t.Errorf("expected volume 150, got %v", stats.Volume24h)
	}
	if stats.ActiveCurrencies != 3 || stats.CryptoCurrencies != 2 || stats.ForexPairs != 1 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if stats.ActiveExchanges != 1 {
		t.Errorf("expected 1 active exchange, got %d", stats.ActiveExchanges)
	}
}

func TestMarketStatsStoreUnavailable(t *testing.T) {
	memStore := testutils.NewMemStore()
	memStore.ReadErr = errors.New("connection reset")
	marketService := NewMarketService(memStore, &fakeForexProvider{}, &fakeCryptoProvider{}, testutils.MockLogger())

	_, err := marketService.MarketStats(context.Background())
	var serviceError *ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if serviceError.Type != ErrorTypeStoreUnavailable {
		t.Errorf("expected ErrorTypeStoreUnavailable, got %v", serviceError.Type)
	}
	if serviceError.IsClientError() {
		t.Error("store failures must not be classified as client errors")
	}
}

func mustUpsert(t *testing.T, memStore *testutils.MemStore, upsert store.CurrencyUpsert) {
	t.Helper()
	if _, err := memStore.UpsertCurrency(context.Background(), upsert); err != nil {
		t.Fatalf("UpsertCurrency(%s) error = %v", upsert.Symbol, err)
	}
}
