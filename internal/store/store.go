package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// CurrencyUpsert carries the writable fields of a currency row. Nil pointers
// leave the stored value untouched on update (merge semantics).
type CurrencyUpsert struct {
	Symbol       string
	Name         string
	Type         string
	CurrentPrice string
	Change24h    *string
	Volume24h    *string
	MarketCap    *string
	IconURL      string
	IsActive     bool
	Metadata     *CurrencyMetadata
}

// ExchangeUpsert carries the writable fields of an exchange row
type ExchangeUpsert struct {
	Name            string
	DisplayName     string
	URL             string
	Country         string
	Volume24h       string
	TrustScore      int
	YearEstablished int
	Description     string
	LogoURL         string
	IsActive        bool
}

// ConversionCreate carries the fields of a new conversion history record
type ConversionCreate struct {
	UserID       *uint
	FromCurrency string
	ToCurrency   string
	FromAmount   string
	ToAmount     string
	ExchangeRate string
}

// MarketPointCreate carries the fields of a new market data sample
type MarketPointCreate struct {
	CurrencyID uint
	Price      string
	Volume     *string
}

// Store is the narrow persistence facade the services depend on
type Store interface {
	GetAllCurrencies(ctx context.Context) ([]Currency, error)
	GetCurrenciesByType(ctx context.Context, currencyType string) ([]Currency, error)
	GetCurrency(ctx context.Context, symbol string) (*Currency, error)
	UpsertCurrency(ctx context.Context, upsert CurrencyUpsert) (*Currency, error)
	UpdateCurrencyPrice(ctx context.Context, symbol, price string, change24h, volume24h, marketCap *string) error

	GetAllExchanges(ctx context.Context) ([]Exchange, error)
	GetExchange(ctx context.Context, id uint) (*Exchange, error)
	UpsertExchange(ctx context.Context, upsert ExchangeUpsert) (*Exchange, error)

	CreateConversion(ctx context.Context, create ConversionCreate) (*Conversion, error)
	GetUserConversions(ctx context.Context, userID uint) ([]Conversion, error)
	GetRecentConversions(ctx context.Context, limit int) ([]Conversion, error)

	InsertMarketPoint(ctx context.Context, create MarketPointCreate) (*MarketPoint, error)
	GetMarketData(ctx context.Context, currencyID uint, hoursWindow int) ([]MarketPoint, error)

	Ping(ctx context.Context) error
}

// gormStore implements Store against a GORM-managed Postgres database
type gormStore struct {
	db *gorm.DB
}

// New creates a Store backed by the given GORM connection
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// GetAllCurrencies returns all active currencies ordered by name
func (s *gormStore) GetAllCurrencies(ctx context.Context) ([]Currency, error) {
	var currencies []Currency
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&currencies).Error
	return currencies, err
}

// GetCurrenciesByType returns active currencies of one kind ordered by name
func (s *gormStore) GetCurrenciesByType(ctx context.Context, currencyType string) ([]Currency, error) {
	var currencies []Currency
	err := s.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", currencyType, true).
		Order("name").
		Find(&currencies).Error
	return currencies, err
}

// GetCurrency returns the currency with the given symbol or ErrNotFound
func (s *gormStore) GetCurrency(ctx context.Context, symbol string) (*Currency, error) {
	var currency Currency
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&currency).Error
	if err != nil {
		return nil, mapGormError(err)
	}
	return &currency, nil
}

// UpsertCurrency inserts a currency keyed on symbol, or merge-updates the
// existing row and bumps last_updated. Repeated calls with the same symbol
// are identity-idempotent; the stored price follows the latest call.
func (s *gormStore) UpsertCurrency(ctx context.Context, upsert CurrencyUpsert) (*Currency, error) {
	var existing Currency
	err := s.db.WithContext(ctx).Where("symbol = ?", upsert.Symbol).First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]interface{}{
			"name":          upsert.Name,
			"type":          upsert.Type,
			"current_price": upsert.CurrentPrice,
			"is_active":     upsert.IsActive,
			"last_updated":  time.Now(),
		}
		if upsert.Change24h != nil {
			updates["change_24h"] = *upsert.Change24h
		}
		if upsert.Volume24h != nil {
			updates["volume_24h"] = *upsert.Volume24h
		}
		if upsert.MarketCap != nil {
			updates["market_cap"] = *upsert.MarketCap
		}
		if upsert.IconURL != "" {
			updates["icon_url"] = upsert.IconURL
		}
		if upsert.Metadata != nil {
			updates["metadata"] = upsert.Metadata
		}
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return s.GetCurrency(ctx, upsert.Symbol)

	case errors.Is(err, gorm.ErrRecordNotFound):
		created := Currency{
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
		if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil

	default:
		return nil, err
	}
}

// UpdateCurrencyPrice updates only the market fields of an existing currency
func (s *gormStore) UpdateCurrencyPrice(ctx context.Context, symbol, price string, change24h, volume24h, marketCap *string) error {
	updates := map[string]interface{}{
		"current_price": price,
		"last_updated":  time.Now(),
	}
	if change24h != nil {
		updates["change_24h"] = *change24h
	}
	if volume24h != nil {
		updates["volume_24h"] = *volume24h
	}
	if marketCap != nil {
		updates["market_cap"] = *marketCap
	}

	return s.db.WithContext(ctx).
		Model(&Currency{}).
		Where("symbol = ?", symbol).
		Updates(updates).Error
}

// GetAllExchanges returns active exchanges, largest 24h volume first
func (s *gormStore) GetAllExchanges(ctx context.Context) ([]Exchange, error) {
	var exchanges []Exchange
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("volume_24h DESC").
		Find(&exchanges).Error
	return exchanges, err
}

// GetExchange returns the exchange with the given id or ErrNotFound
func (s *gormStore) GetExchange(ctx context.Context, id uint) (*Exchange, error) {
	var exchange Exchange
	err := s.db.WithContext(ctx).First(&exchange, id).Error
	if err != nil {
		return nil, mapGormError(err)
	}
	return &exchange, nil
}

// UpsertExchange inserts an exchange keyed on name, or updates the existing
// row and bumps last_updated
func (s *gormStore) UpsertExchange(ctx context.Context, upsert ExchangeUpsert) (*Exchange, error) {
	var existing Exchange
	err := s.db.WithContext(ctx).Where("name = ?", upsert.Name).First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]interface{}{
			"display_name":     upsert.DisplayName,
			"url":              upsert.URL,
			"country":          upsert.Country,
			"volume_24h":       upsert.Volume24h,
			"trust_score":      upsert.TrustScore,
			"year_established": upsert.YearEstablished,
			"description":      upsert.Description,
			"logo_url":         upsert.LogoURL,
			"is_active":        upsert.IsActive,
			"last_updated":     time.Now(),
		}
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		var updated Exchange
		if err := s.db.WithContext(ctx).Where("name = ?", upsert.Name).First(&updated).Error; err != nil {
			return nil, mapGormError(err)
		}
		return &updated, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		created := Exchange{
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
		if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil

	default:
		return nil, err
	}
}

// CreateConversion appends one conversion history record
func (s *gormStore) CreateConversion(ctx context.Context, create ConversionCreate) (*Conversion, error) {
	conversion := Conversion{
		UserID:       create.UserID,
		FromCurrency: create.FromCurrency,
		ToCurrency:   create.ToCurrency,
		FromAmount:   create.FromAmount,
		ToAmount:     create.ToAmount,
		ExchangeRate: create.ExchangeRate,
	}
	if err := s.db.WithContext(ctx).Create(&conversion).Error; err != nil {
		return nil, err
	}
	return &conversion, nil
}

// GetUserConversions returns a user's conversions, newest first, capped at 50
func (s *gormStore) GetUserConversions(ctx context.Context, userID uint) ([]Conversion, error) {
	var conversions []Conversion
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&conversions).Error
	return conversions, err
}

// GetRecentConversions returns the newest conversions across all users
func (s *gormStore) GetRecentConversions(ctx context.Context, limit int) ([]Conversion, error) {
	if limit <= 0 {
		limit = 10
	}
	var conversions []Conversion
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&conversions).Error
	return conversions, err
}

// InsertMarketPoint appends one market data sample
func (s *gormStore) InsertMarketPoint(ctx context.Context, create MarketPointCreate) (*MarketPoint, error) {
	point := MarketPoint{
		CurrencyID: create.CurrencyID,
		Price:      create.Price,
		Volume:     create.Volume,
		Timestamp:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&point).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

// GetMarketData returns a currency's samples inside the trailing window,
// oldest first
func (s *gormStore) GetMarketData(ctx context.Context, currencyID uint, hoursWindow int) ([]MarketPoint, error) {
	if hoursWindow <= 0 {
		hoursWindow = 24
	}
	windowStart := time.Now().Add(-time.Duration(hoursWindow) * time.Hour)

	var points []MarketPoint
	err := s.db.WithContext(ctx).
		Where("currency_id = ? AND timestamp >= ?", currencyID, windowStart).
		Order("timestamp").
		Find(&points).Error
	return points, err
}

// Ping verifies database connectivity
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// mapGormError keeps GORM error values inside the store package
func mapGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
