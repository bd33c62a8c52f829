package testutils

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"market-dashboard-api/internal/store"
)

var errInjected = errors.New("injected store failure")

// MemStore is an in-memory store.Store used by service and handler tests.
// Error fields, when set, make the matching operation fail; FailUpsertAfter
// makes UpsertCurrency fail once that many upserts have succeeded.
type MemStore struct {
	mu sync.Mutex

	currencies   []store.Currency
	exchanges    []store.Exchange
	conversions  []store.Conversion
	marketPoints []store.MarketPoint
	nextID       uint

	UpsertCurrencyErr   error
	FailUpsertAfter     int
	upsertCurrencyCalls int
	UpsertExchangeErr   error
	CreateConversionErr error
	InsertPointErr      error
	ReadErr             error
	PingErr             error
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

func (m *MemStore) allocID() uint {
	id := m.nextID
	m.nextID++
	return id
}

// GetAllCurrencies returns active currencies ordered by name
func (m *MemStore) GetAllCurrencies(ctx context.Context) ([]store.Currency, error) {
	return m.GetCurrenciesByType(ctx, "")
}

// GetCurrenciesByType returns active currencies of one kind ordered by name.
// An empty type matches every kind.
func (m *MemStore) GetCurrenciesByType(_ context.Context, currencyType string) ([]store.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	var matched []store.Currency
	for _, currency := range m.currencies {
		if !currency.IsActive {
			continue
		}
		if currencyType != "" && currency.Type != currencyType {
			continue
		}
		matched = append(matched, currency)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

// GetCurrency returns the currency with the given symbol or store.ErrNotFound
func (m *MemStore) GetCurrency(_ context.Context, symbol string) (*store.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	for i := range m.currencies {
		if m.currencies[i].Symbol == symbol {
			found := m.currencies[i]
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpsertCurrency inserts or merge-updates a currency keyed on symbol
func (m *MemStore) UpsertCurrency(_ context.Context, upsert store.CurrencyUpsert) (*store.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertCurrencyErr != nil {
		return nil, m.UpsertCurrencyErr
	}
	if m.FailUpsertAfter > 0 && m.upsertCurrencyCalls >= m.FailUpsertAfter {
		return nil, errInjected
	}
	m.upsertCurrencyCalls++

	for i := range m.currencies {
		if m.currencies[i].Symbol != upsert.Symbol {
			continue
		}
		existing := &m.currencies[i]
		existing.Name = upsert.Name
		existing.Type = upsert.Type
		existing.CurrentPrice = upsert.CurrentPrice
		existing.IsActive = upsert.IsActive
		existing.LastUpdated = time.Now()
		if upsert.Change24h != nil {
			existing.Change24h = upsert.Change24h
		}
		if upsert.Volume24h != nil {
			existing.Volume24h = upsert.Volume24h
		}
		if upsert.MarketCap != nil {
			existing.MarketCap = upsert.MarketCap
		}
		if upsert.IconURL != "" {
			existing.IconURL = upsert.IconURL
		}
		if upsert.Metadata != nil {
			existing.Metadata = upsert.Metadata
		}
		found := *existing
		return &found, nil
	}

	created := store.Currency{
		ID:           m.allocID(),
		Symbol:       upsert.Symbol,
		Name:         upsert.Name,
		Type:         upsert.Type,
		CurrentPrice: upsert.CurrentPrice,
		Change24h:    upsert.Change24h,
		Volume24h:    upsert.Volume24h,
		MarketCap:    upsert.MarketCap,
		IconURL:      upsert.IconURL,
		IsActive:     upsert.IsActive,
		Metadata:     upsert.Metadata,
		LastUpdated:  time.Now(),
	}
	m.currencies = append(m.currencies, created)
	return &created, nil
}

// UpdateCurrencyPrice updates only the market fields of an existing currency
func (m *MemStore) UpdateCurrencyPrice(_ context.Context, symbol, price string, change24h, volume24h, marketCap *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertCurrencyErr != nil {
		return m.UpsertCurrencyErr
	}

	for i := range m.currencies {
		if m.currencies[i].Symbol != symbol {
			continue
		}
		m.currencies[i].CurrentPrice = price
		m.currencies[i].LastUpdated = time.Now()
		if change24h != nil {
			m.currencies[i].Change24h = change24h
		}
		if volume24h != nil {
			m.currencies[i].Volume24h = volume24h
		}
		if marketCap != nil {
			m.currencies[i].MarketCap = marketCap
		}
		return nil
	}
	return nil
}

// GetAllExchanges returns active exchanges, largest 24h volume first
func (m *MemStore) GetAllExchanges(_ context.Context) ([]store.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	var matched []store.Exchange
	for _, exchange := range m.exchanges {
		if exchange.IsActive {
			matched = append(matched, exchange)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		left, _ := strconv.ParseFloat(matched[i].Volume24h, 64)
		right, _ := strconv.ParseFloat(matched[j].Volume24h, 64)
		return left > right
	})
	return matched, nil
}

// GetExchange returns the exchange with the given id or store.ErrNotFound
func (m *MemStore) GetExchange(_ context.Context, id uint) (*store.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	for i := range m.exchanges {
		if m.exchanges[i].ID == id {
			found := m.exchanges[i]
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpsertExchange inserts or updates an exchange keyed on name
func (m *MemStore) UpsertExchange(_ context.Context, upsert store.ExchangeUpsert) (*store.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertExchangeErr != nil {
		return nil, m.UpsertExchangeErr
	}

	for i := range m.exchanges {
		if m.exchanges[i].Name != upsert.Name {
			continue
		}
		existing := &m.exchanges[i]
		existing.DisplayName = upsert.DisplayName
		existing.URL = upsert.URL
		existing.Country = upsert.Country
		existing.Volume24h = upsert.Volume24h
		existing.TrustScore = upsert.TrustScore
		existing.YearEstablished = upsert.YearEstablished
		existing.Description = upsert.Description
		existing.LogoURL = upsert.LogoURL
		existing.IsActive = upsert.IsActive
		existing.LastUpdated = time.Now()
		found := *existing
		return &found, nil
	}

	created := store.Exchange{
		ID:              m.allocID(),
		Name:            upsert.Name,
		DisplayName:     upsert.DisplayName,
		URL:             upsert.URL,
		Country:         upsert.Country,
		Volume24h:       upsert.Volume24h,
		TrustScore:      upsert.TrustScore,
		YearEstablished: upsert.YearEstablished,
		Description:     upsert.Description,
		LogoURL:         upsert.LogoURL,
		IsActive:        upsert.IsActive,
		LastUpdated:     time.Now(),
	}
	m.exchanges = append(m.exchanges, created)
	return &created, nil
}

// CreateConversion appends one conversion history record
func (m *MemStore) CreateConversion(_ context.Context, create store.ConversionCreate) (*store.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateConversionErr != nil {
		return nil, m.CreateConversionErr
	}

	conversion := store.Conversion{
		ID:           m.allocID(),
		UserID:       create.UserID,
		FromCurrency: create.FromCurrency,
		ToCurrency:   create.ToCurrency,
		FromAmount:   create.FromAmount,
		ToAmount:     create.ToAmount,
		ExchangeRate: create.ExchangeRate,
		CreatedAt:    time.Now(),
	}
	m.conversions = append(m.conversions, conversion)
	return &conversion, nil
}

// GetUserConversions returns a user's conversions, newest first, capped at 50
func (m *MemStore) GetUserConversions(_ context.Context, userID uint) ([]store.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	var matched []store.Conversion
	for i := len(m.conversions) - 1; i >= 0 && len(matched) < 50; i-- {
		if m.conversions[i].UserID != nil && *m.conversions[i].UserID == userID {
			matched = append(matched, m.conversions[i])
		}
	}
	return matched, nil
}

// GetRecentConversions returns the newest conversions across all users
func (m *MemStore) GetRecentConversions(_ context.Context, limit int) ([]store.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	if limit <= 0 {
		limit = 10
	}
	var matched []store.Conversion
	for i := len(m.conversions) - 1; i >= 0 && len(matched) < limit; i-- {
		matched = append(matched, m.conversions[i])
	}
	return matched, nil
}

// InsertMarketPoint appends one market data sample
func (m *MemStore) InsertMarketPoint(_ context.Context, create store.MarketPointCreate) (*store.MarketPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertPointErr != nil {
		return nil, m.InsertPointErr
	}

	point := store.MarketPoint{
		ID:         m.allocID(),
		CurrencyID: create.CurrencyID,
		Price:      create.Price,
		Volume:     create.Volume,
		Timestamp:  time.Now(),
	}
	m.marketPoints = append(m.marketPoints, point)
	return &point, nil
}

// GetMarketData returns a currency's samples inside the trailing window,
// oldest first
func (m *MemStore) GetMarketData(_ context.Context, currencyID uint, hoursWindow int) ([]store.MarketPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	if hoursWindow <= 0 {
		hoursWindow = 24
	}
	windowStart := time.Now().Add(-time.Duration(hoursWindow) * time.Hour)

	var matched []store.MarketPoint
	for _, point := range m.marketPoints {
		if point.CurrencyID == currencyID && !point.Timestamp.Before(windowStart) {
			matched = append(matched, point)
		}
	}
	return matched, nil
}

// Ping reports the injected connectivity error, if any
func (m *MemStore) Ping(_ context.Context) error {
	return m.PingErr
}

// CurrencyCount reports how many currencies are stored
func (m *MemStore) CurrencyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.currencies)
}

// ConversionCount reports how many conversion records are stored
func (m *MemStore) ConversionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversions)
}

// MarketPointCount reports how many market data samples are stored
func (m *MemStore) MarketPointCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.marketPoints)
}

// SeedMarketPoint inserts a sample with an explicit timestamp
func (m *MemStore) SeedMarketPoint(currencyID uint, price string, timestamp time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marketPoints = append(m.marketPoints, store.MarketPoint{
		ID:         m.allocID(),
		CurrencyID: currencyID,
		Price:      price,
		Timestamp:  timestamp,
	})
}
