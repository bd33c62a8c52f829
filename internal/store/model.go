package store

import "time"

// Currency kinds stored in the currencies table
const (
	CurrencyTypeForex  = "forex"
	CurrencyTypeCrypto = "crypto"
)

// CurrencyMetadata is opaque per-coin data carried alongside a currency row
type CurrencyMetadata struct {
	Rank              int     `json:"rank,omitempty"`
	CirculatingSupply float64 `json:"circulatingSupply,omitempty"`
	TotalSupply       float64 `json:"totalSupply,omitempty"`
	MaxSupply         float64 `json:"maxSupply,omitempty"`
}

// Currency is a stored fiat pair or crypto coin. Prices are kept as decimal
// strings so upstream precision survives storage untouched.
type Currency struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Symbol       string            `gorm:"type:varchar(16);uniqueIndex;not null" json:"symbol"`
	Name         string            `gorm:"not null" json:"name"`
	Type         string            `gorm:"type:varchar(8);not null" json:"type"`
	CurrentPrice string            `gorm:"type:decimal(20,8)" json:"currentPrice"`
	Change24h    *string           `gorm:"type:decimal(10,4)" json:"change24h"`
	Volume24h    *string           `gorm:"type:decimal(20,2)" json:"volume24h"`
	MarketCap    *string           `gorm:"type:decimal(20,2)" json:"marketCap"`
	LastUpdated  time.Time         `gorm:"not null" json:"lastUpdated"`
	IsActive     bool              `gorm:"not null;default:true" json:"isActive"`
	IconURL      string            `json:"iconUrl,omitempty"`
	Metadata     *CurrencyMetadata `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`
}

// Exchange is a stored trading venue listing
type Exchange struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName     string    `gorm:"not null" json:"displayName"`
	URL             string    `json:"url,omitempty"`
	Country         string    `json:"country,omitempty"`
	Volume24h       string    `gorm:"type:decimal(20,2)" json:"volume24h"`
	TrustScore      int       `json:"trustScore"`
	YearEstablished int       `json:"yearEstablished,omitempty"`
	Description     string    `json:"description,omitempty"`
	LogoURL         string    `json:"logoUrl,omitempty"`
	IsActive        bool      `gorm:"not null;default:true" json:"isActive"`
	LastUpdated     time.Time `gorm:"not null" json:"lastUpdated"`
}

// Conversion is one append-only conversion history record. Rows are never
// updated or deleted once written.
type Conversion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       *uint     `json:"userId"`
	FromCurrency string    `gorm:"type:varchar(16);not null" json:"fromCurrency"`
	ToCurrency   string    `gorm:"type:varchar(16);not null" json:"toCurrency"`
	FromAmount   string    `gorm:"type:decimal(20,8);not null" json:"fromAmount"`
	ToAmount     string    `gorm:"type:decimal(20,8);not null" json:"toAmount"`
	ExchangeRate string    `gorm:"type:decimal(20,10);not null" json:"exchangeRate"`
	CreatedAt    time.Time `json:"timestamp"`
}

// TableName keeps the historical table name from earlier schema revisions
func (Conversion) TableName() string {
	return "conversion_history"
}

// MarketPoint is one append-only time-series sample for a currency
type MarketPoint struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CurrencyID uint      `gorm:"index;not null" json:"currencyId"`
	Price      string    `gorm:"type:decimal(20,8);not null" json:"price"`
	Volume     *string   `gorm:"type:decimal(20,2)" json:"volume"`
	Timestamp  time.Time `gorm:"index;not null" json:"timestamp"`
}

// TableName keeps the historical table name from earlier schema revisions
func (MarketPoint) TableName() string {
	return "market_data"
}
