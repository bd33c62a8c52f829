package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"market-dashboard-api/internal/models"
	"market-dashboard-api/internal/rates"
	"market-dashboard-api/internal/testutils"
)

func newConversionService(memStore *testutils.MemStore) *ConversionService {
	table := rates.NewTable(map[string]float64{
		"USD": 1.0,
		"EUR": 0.85,
		"GBP": 0.73,
		"BTC": 0.0000154,
	})
	return NewConversionService(table, memStore, testutils.MockLogger())
}

func TestConvert(t *testing.T) {
	memStore := testutils.NewMemStore()
	conversionService := newConversionService(memStore)

	result, err := conversionService.Convert(context.Background(), models.ConvertRequest{
		From: "USD", To: "EUR", Amount: 1000,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if result.From != "USD" || result.To != "EUR" {
		t.Errorf("unexpected pair %s->%s", result.From, result.To)
	}
	if math.Abs(result.ToAmount-850) > 1e-9 {
		t.Errorf("expected 850, got %v", result.ToAmount)
	}
	if math.Abs(result.Rate-0.85) > 1e-12 {
		t.Errorf("expected rate 0.85, got %v", result.Rate)
	}
	if result.Timestamp.IsZero() {
		t.Error("expected a populated timestamp")
	}

	// Each successful conversion appends one history record.
	if memStore.ConversionCount() != 1 {
		t.Errorf("expected 1 history record, got %d", memStore.ConversionCount())
	}
	recorded, err := memStore.GetRecentConversions(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecentConversions() error = %v", err)
	}
	if recorded[0].FromCurrency != "USD" || recorded[0].ToCurrency != "EUR" {
		t.Errorf("unexpected recorded pair %s->%s", recorded[0].FromCurrency, recorded[0].ToCurrency)
	}
	if recorded[0].FromAmount != "1000" || recorded[0].ToAmount != "850" {
		t.Errorf("unexpected recorded amounts %s -> %s", recorded[0].FromAmount, recorded[0].ToAmount)
	}
}

func TestConvertRepeatAppendsNewRecords(t *testing.T) {
	memStore := testutils.NewMemStore()
	conversionService := newConversionService(memStore)
	request := models.ConvertRequest{From: "USD", To: "GBP", Amount: 50}

	for i := 0; i < 3; i++ {
		if _, err := conversionService.Convert(context.Background(), request); err != nil {
			t.Fatalf("Convert() attempt %d error = %v", i+1, err)
		}
	}
	if memStore.ConversionCount() != 3 {
		t.Errorf("expected 3 history records, got %d", memStore.ConversionCount())
	}
}

func TestConvertHistoryWriteFailureIsBestEffort(t *testing.T) {
	memStore := testutils.NewMemStore()
	memStore.CreateConversionErr = errors.New("connection reset")
	conversionService := newConversionService(memStore)

	result, err := conversionService.Convert(context.Background(), models.ConvertRequest{
		From: "USD", To: "EUR", Amount: 100,
	})
	if err != nil {
		t.Fatalf("Convert() must succeed despite history failure, got %v", err)
	}
	if math.Abs(result.ToAmount-85) > 1e-9 {
		t.Errorf("expected 85, got %v", result.ToAmount)
	}
	if memStore.ConversionCount() != 0 {
		t.Errorf("expected no stored records, got %d", memStore.ConversionCount())
	}
}

func TestConvertInvalidInput(t *testing.T) {
	conversionService := newConversionService(testutils.NewMemStore())

	tests := []struct {
		name    string
		request models.ConvertRequest
	}{
		{"empty from", models.ConvertRequest{From: "", To: "EUR", Amount: 100}},
		{"empty to", models.ConvertRequest{From: "USD", To: "", Amount: 100}},
		{"zero amount", models.ConvertRequest{From: "USD", To: "EUR", Amount: 0}},
		{"negative amount", models.ConvertRequest{From: "USD", To: "EUR", Amount: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conversionService.Convert(context.Background(), tt.request)
			var serviceError *ServiceError
			if !errors.As(err, &serviceError) {
				t.Fatalf("expected *ServiceError, got %T", err)
			}
			if serviceError.Type != ErrorTypeInvalidInput {
				t.Errorf("expected ErrorTypeInvalidInput, got %v", serviceError.Type)
			}
			if !serviceError.IsClientError() {
				t.Error("invalid input must be a client error")
			}
		})
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	memStore := testutils.NewMemStore()
	conversionService := newConversionService(memStore)

	_, err := conversionService.Convert(context.Background(), models.ConvertRequest{
		From: "USD", To: "XYZ", Amount: 100,
	})
	var serviceError *ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if serviceError.Type != ErrorTypeUnsupportedCurrency {
		t.Errorf("expected ErrorTypeUnsupportedCurrency, got %v", serviceError.Type)
	}
	if serviceError.Message != "exchange rate not available for USD to XYZ" {
		t.Errorf("unexpected message %q", serviceError.Message)
	}
	// A failed conversion must not leave a history record behind.
	if memStore.ConversionCount() != 0 {
		t.Errorf("expected no stored records, got %d", memStore.ConversionCount())
	}
}

func TestConvertRecordsUserID(t *testing.T) {
	memStore := testutils.NewMemStore()
	conversionService := newConversionService(memStore)
	userID := uint(7)

	if _, err := conversionService.Convert(context.Background(), models.ConvertRequest{
		From: "EUR", To: "GBP", Amount: 20, UserID: &userID,
	}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	conversions, err := conversionService.UserConversions(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserConversions() error = %v", err)
	}
	if len(conversions) != 1 {
		t.Fatalf("expected 1 conversion for user, got %d", len(conversions))
	}
	if conversions[0].UserID == nil || *conversions[0].UserID != userID {
		t.Errorf("unexpected user id %v", conversions[0].UserID)
	}
}

func TestRecentConversionsStoreUnavailable(t *testing.T) {
	memStore := testutils.NewMemStore()
	memStore.ReadErr = errors.New("connection refused")
	conversionService := newConversionService(memStore)

	_, err := conversionService.RecentConversions(context.Background(), 10)
	var serviceError *ServiceError
	if !errors.As(err, &serviceError) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if serviceError.Type != ErrorTypeStoreUnavailable {
		t.Errorf("expected ErrorTypeStoreUnavailable, got %v", serviceError.Type)
	}
}
