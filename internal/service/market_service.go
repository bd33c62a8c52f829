package service

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"market-dashboard-api/internal/logger"
	"market-dashboard-api/internal/models"
	"market-dashboard-api/internal/provider"
	"market-dashboard-api/internal/store"
)

// Page sizes mirror what the dashboard renders
const (
	cryptoPageSize   = 50
	exchangePageSize = 20
)

// majorCurrencies is the fixed list of forex targets. Pairs are synthetic
// "USD/<code>" symbols because the upstream returns base-USD rates only.
var majorCurrencies = []string{"EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD", "SEK", "NOK", "DKK"}

// ForexRateProvider supplies base-currency conversion rates
type ForexRateProvider interface {
	LatestRates(ctx context.Context, baseCurrency string) (*provider.LatestRatesResponse, error)
}

// CryptoMarketProvider supplies coin market data and exchange listings
type CryptoMarketProvider interface {
	CoinMarkets(ctx context.Context, vsCurrency string, perPage, page int) ([]provider.CoinMarket, error)
	Exchanges(ctx context.Context, perPage, page int) ([]provider.ExchangeInfo, error)
}

// MarketService runs the per-source sync jobs: fetch from a provider,
// validate, upsert into the store, and hand the normalized list back.
// Syncs run synchronously inside the calling request; concurrent identical
// requests are coalesced into one provider call via singleflight. Upserts
// are not wrapped in a batch transaction, so a mid-batch provider or store
// failure leaves earlier upserts committed.
type MarketService struct {
	logger         *logger.Logger
	store          store.Store
	forexProvider  ForexRateProvider
	cryptoProvider CryptoMarketProvider

	flightGroup singleflight.Group
}

// NewMarketService creates a market sync service
func NewMarketService(st store.Store, forexProvider ForexRateProvider, cryptoProvider CryptoMarketProvider, log *logger.Logger) *MarketService {
	return &MarketService{
		logger:         log,
		store:          st,
		forexProvider:  forexProvider,
		cryptoProvider: cryptoProvider,
	}
}

// SyncForex fetches USD rates for the major currencies and upserts one
// forex currency per pair. The upstream does not report 24h change, so the
// stored change is a constant "0" placeholder.
func (marketService *MarketService) SyncForex(ctx context.Context) ([]models.ForexQuote, error) {
	result, err, _ := marketService.flightGroup.Do("sync:forex", func() (interface{}, error) {
		return marketService.syncForex(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.ForexQuote), nil
}

func (marketService *MarketService) syncForex(ctx context.Context) ([]models.ForexQuote, error) {
	latest, err := marketService.forexProvider.LatestRates(ctx, "USD")
	if err != nil {
		return nil, classifyProviderError("forex provider", err)
	}

	change := "0"
	quotes := make([]models.ForexQuote, 0, len(majorCurrencies))

	for _, code := range majorCurrencies {
		rate, found := latest.ConversionRates[code]
		if !found {
			marketService.logger.WithComponent("sync.forex").
				Warnf("provider response missing rate for %s, skipping", code)
			continue
		}

		pair := "USD/" + code
		name := "US Dollar to " + code

		_, err := marketService.store.UpsertCurrency(ctx, store.CurrencyUpsert{
			Symbol:       pair,
			Name:         name,
			Type:         store.CurrencyTypeForex,
			CurrentPrice: formatFloat(rate),
			Change24h:    &change,
			IsActive:     true,
		})
		if err != nil {
			return nil, storeError("forex sync", err)
		}

		quotes = append(quotes, models.ForexQuote{
			Symbol:    pair,
			Name:      name,
			Price:     rate,
			Change24h: 0,
			Type:      store.CurrencyTypeForex,
		})
	}

	marketService.logger.WithComponent("sync.forex").Infof("synced %d forex pairs", len(quotes))
	return quotes, nil
}

// SyncCrypto fetches the top coins by market cap and upserts one crypto
// currency per coin. A coin with missing numeric fields is stored with "0"
// placeholders rather than failing the batch; a coin without a symbol is
// quarantined (skipped and logged).
func (marketService *MarketService) SyncCrypto(ctx context.Context) ([]models.CryptoQuote, error) {
	result, err, _ := marketService.flightGroup.Do("sync:crypto", func() (interface{}, error) {
		return marketService.syncCrypto(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.CryptoQuote), nil
}

func (marketService *MarketService) syncCrypto(ctx context.Context) ([]models.CryptoQuote, error) {
	coins, err := marketService.cryptoProvider.CoinMarkets(ctx, "usd", cryptoPageSize, 1)
	if err != nil {
		return nil, classifyProviderError("crypto provider", err)
	}

	quotes := make([]models.CryptoQuote, 0, len(coins))

	for _, coin := range coins {
		if coin.Symbol == "" {
			marketService.logger.WithComponent("sync.crypto").
				Warnf("quarantining coin %q with empty symbol", coin.ID)
			continue
		}

		symbol := upperSymbol(coin.Symbol)
		price := formatFloatOrZero(coin.CurrentPrice)
		change := formatFloatOrZero(coin.PriceChangePercentage24h)
		volume := formatFloatOrZero(coin.TotalVolume)
		marketCap := formatFloatOrZero(coin.MarketCap)

		currency, err := marketService.store.UpsertCurrency(ctx, store.CurrencyUpsert{
			Symbol:       symbol,
			Name:         coin.Name,
			Type:         store.CurrencyTypeCrypto,
			CurrentPrice: price,
			Change24h:    &change,
			Volume24h:    &volume,
			MarketCap:    &marketCap,
			IconURL:      coin.Image,
			IsActive:     true,
			Metadata: &store.CurrencyMetadata{
				Rank:              coin.MarketCapRank,
				CirculatingSupply: floatOrZero(coin.CirculatingSupply),
				TotalSupply:       floatOrZero(coin.TotalSupply),
				MaxSupply:         floatOrZero(coin.MaxSupply),
			},
		})
		if err != nil {
			return nil, storeError("crypto sync", err)
		}

		// One time-series sample per sync feeds the market chart.
		if _, err := marketService.store.InsertMarketPoint(ctx, store.MarketPointCreate{
			CurrencyID: currency.ID,
			Price:      price,
			Volume:     &volume,
		}); err != nil {
			marketService.logger.WithComponent("sync.crypto").
				Warnf("failed to record market point for %s: %v", symbol, err)
		}

		quotes = append(quotes, models.CryptoQuote{
			Symbol:    symbol,
			Name:      coin.Name,
			Price:     floatOrZero(coin.CurrentPrice),
			Change24h: floatOrZero(coin.PriceChangePercentage24h),
			Volume24h: floatOrZero(coin.TotalVolume),
			MarketCap: floatOrZero(coin.MarketCap),
			Rank:      coin.MarketCapRank,
			Icon:      coin.Image,
			Type:      store.CurrencyTypeCrypto,
		})
	}

	marketService.logger.WithComponent("sync.crypto").Infof("synced %d coins", len(quotes))
	return quotes, nil
}

// SyncExchanges fetches the top exchange listings and upserts one row per
// exchange, keyed on the provider's stable id.
func (marketService *MarketService) SyncExchanges(ctx context.Context) ([]models.ExchangeListing, error) {
	result, err, _ := marketService.flightGroup.Do("sync:exchanges", func() (interface{}, error) {
		return marketService.syncExchanges(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.ExchangeListing), nil
}

func (marketService *MarketService) syncExchanges(ctx context.Context) ([]models.ExchangeListing, error) {
	exchanges, err := marketService.cryptoProvider.Exchanges(ctx, exchangePageSize, 1)
	if err != nil {
		return nil, classifyProviderError("exchange provider", err)
	}

	listings := make([]models.ExchangeListing, 0, len(exchanges))

	for _, exchange := range exchanges {
		if exchange.ID == "" {
			marketService.logger.WithComponent("sync.exchanges").
				Warnf("quarantining exchange %q with empty id", exchange.Name)
			continue
		}

		_, err := marketService.store.UpsertExchange(ctx, store.ExchangeUpsert{
			Name:            exchange.ID,
			DisplayName:     exchange.Name,
			URL:             exchange.URL,
			Country:         exchange.Country,
			Volume24h:       formatFloatOrZero(exchange.TradeVolume24hBTC),
			TrustScore:      exchange.TrustScore,
			YearEstablished: exchange.YearEstablished,
			Description:     exchange.Description,
			LogoURL:         exchange.Image,
			IsActive:        true,
		})
		if err != nil {
			return nil, storeError("exchange sync", err)
		}

		listings = append(listings, models.ExchangeListing{
			ID:              exchange.ID,
			Name:            exchange.Name,
			URL:             exchange.URL,
			Country:         exchange.Country,
			Volume24h:       floatOrZero(exchange.TradeVolume24hBTC),
			TrustScore:      exchange.TrustScore,
			YearEstablished: exchange.YearEstablished,
			Image:           exchange.Image,
		})
	}

	marketService.logger.WithComponent("sync.exchanges").Infof("synced %d exchanges", len(listings))
	return listings, nil
}

// MarketStats aggregates stored market data. Market cap and volume sum over
// crypto currencies only; forex pairs contribute to the active count.
func (marketService *MarketService) MarketStats(ctx context.Context) (*models.MarketStats, error) {
	var (
		cryptoCurrencies []store.Currency
		forexCurrencies  []store.Currency
		exchanges        []store.Exchange
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		cryptoCurrencies, err = marketService.store.GetCurrenciesByType(groupCtx, store.CurrencyTypeCrypto)
		return err
	})
	group.Go(func() error {
		var err error
		forexCurrencies, err = marketService.store.GetCurrenciesByType(groupCtx, store.CurrencyTypeForex)
		return err
	})
	group.Go(func() error {
		var err error
		exchanges, err = marketService.store.GetAllExchanges(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, storeError("market stats", err)
	}

	var totalMarketCap, totalVolume float64
	for _, currency := range cryptoCurrencies {
		totalMarketCap += parseDecimalString(currency.MarketCap)
		totalVolume += parseDecimalString(currency.Volume24h)
	}

	return &models.MarketStats{
		MarketCap:        totalMarketCap,
		Volume24h:        totalVolume,
		ActiveCurrencies: len(cryptoCurrencies) + len(forexCurrencies),
		ActiveExchanges:  len(exchanges),
		CryptoCurrencies: len(cryptoCurrencies),
		ForexPairs:       len(forexCurrencies),
	}, nil
}

// MarketHistory returns the stored time-series samples for one currency
// inside the trailing window.
func (marketService *MarketService) MarketHistory(ctx context.Context, currencyID uint, hoursWindow int) ([]store.MarketPoint, error) {
	points, err := marketService.store.GetMarketData(ctx, currencyID, hoursWindow)
	if err != nil {
		return nil, storeError("market history", err)
	}
	return points, nil
}

// formatFloat renders a float with the shortest round-trip representation
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// formatFloatOrZero renders an optional float, defaulting absent values to "0"
func formatFloatOrZero(value *float64) string {
	if value == nil {
		return "0"
	}
	return formatFloat(*value)
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

// parseDecimalString reads a stored decimal string, treating nil and
// malformed values as zero so one bad row cannot poison an aggregate.
func parseDecimalString(value *string) float64 {
	if value == nil {
		return 0
	}
	parsed, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// upperSymbol normalizes provider symbols to the stored uppercase form
func upperSymbol(symbol string) string {
	return strings.ToUpper(symbol)
}
