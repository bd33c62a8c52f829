package store

import (
	"context"
	"testing"
	"time"
)

// seedFakeStore implements just the facade calls SeedCurrencies makes;
// everything else panics via the embedded nil interface.
type seedFakeStore struct {
	Store
	currencies []Currency
}

func (fake *seedFakeStore) GetAllCurrencies(_ context.Context) ([]Currency, error) {
	return fake.currencies, nil
}

func (fake *seedFakeStore) UpsertCurrency(_ context.Context, upsert CurrencyUpsert) (*Currency, error) {
	created := Currency{
		ID:           uint(len(fake.currencies) + 1),
		Symbol:       upsert.Symbol,
		Name:         upsert.Name,
		Type:         upsert.Type,
		CurrentPrice: upsert.CurrentPrice,
		IsActive:     upsert.IsActive,
		LastUpdated:  time.Now(),
	}
	fake.currencies = append(fake.currencies, created)
	return &created, nil
}

func TestSeedCurrenciesPopulatesEmptyStore(t *testing.T) {
	fake := &seedFakeStore{}

	seeded, err := SeedCurrencies(context.Background(), fake)
	if err != nil {
		t.Fatalf("SeedCurrencies() error = %v", err)
	}
	if seeded != len(fiatSeedCurrencies) {
		t.Errorf("seeded %d currencies, want %d", seeded, len(fiatSeedCurrencies))
	}
	if len(fake.currencies) != len(fiatSeedCurrencies) {
		t.Errorf("stored %d currencies, want %d", len(fake.currencies), len(fiatSeedCurrencies))
	}
}

func TestSeedCurrenciesSkipsNonEmptyStore(t *testing.T) {
	synced := "1.0850"
	fake := &seedFakeStore{
		currencies: []Currency{{
			ID:           1,
			Symbol:       "EUR",
			Name:         "Euro",
			Type:         CurrencyTypeForex,
			CurrentPrice: synced,
			IsActive:     true,
		}},
	}

	seeded, err := SeedCurrencies(context.Background(), fake)
	if err != nil {
		t.Fatalf("SeedCurrencies() error = %v", err)
	}
	if seeded != 0 {
		t.Errorf("seeded %d currencies, want 0", seeded)
	}
	// A restart must not reset a synced price back to the placeholder.
	if fake.currencies[0].CurrentPrice != synced {
		t.Errorf("price = %s, want %s untouched", fake.currencies[0].CurrentPrice, synced)
	}
}
