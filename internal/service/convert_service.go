package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"market-dashboard-api/internal/logger"
	"market-dashboard-api/internal/models"
	"market-dashboard-api/internal/rates"
	"market-dashboard-api/internal/store"
)

// ConversionService resolves cross rates against an injected rate table and
// records each conversion. The table is static placeholder data, so results
// are indicative rather than authoritative.
type ConversionService struct {
	table  rates.Table
	store  store.Store
	logger *logger.Logger
}

// NewConversionService creates a conversion service over the given table
func NewConversionService(table rates.Table, st store.Store, log *logger.Logger) *ConversionService {
	return &ConversionService{
		table:  table,
		store:  st,
		logger: log,
	}
}

// Convert computes the conversion and then makes a best-effort attempt to
// append a history record. The two steps are deliberately separate: a
// failed history write is logged as a warning and never fails the
// conversion itself. Repeating a request appends a new record each time.
func (conversionService *ConversionService) Convert(ctx context.Context, request models.ConvertRequest) (*models.ConvertResult, error) {
	if request.From == "" || request.To == "" || request.Amount <= 0 {
		return nil, &ServiceError{
			Type:    ErrorTypeInvalidInput,
			Message: "invalid conversion parameters",
		}
	}

	conversion, err := rates.Convert(conversionService.table, request.From, request.To, request.Amount)
	if err != nil {
		return nil, mapConversionError(request, err)
	}

	conversionService.recordConversion(ctx, request.UserID, conversion)

	return &models.ConvertResult{
		From:       conversion.From,
		To:         conversion.To,
		FromAmount: conversion.FromAmount,
		ToAmount:   conversion.ToAmount,
		Rate:       conversion.Rate,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// recordConversion appends the history row for a completed conversion
func (conversionService *ConversionService) recordConversion(ctx context.Context, userID *uint, conversion rates.Conversion) {
	_, err := conversionService.store.CreateConversion(ctx, store.ConversionCreate{
		UserID:       userID,
		FromCurrency: conversion.From,
		ToCurrency:   conversion.To,
		FromAmount:   formatFloat(conversion.FromAmount),
		ToAmount:     formatFloat(conversion.ToAmount),
		ExchangeRate: formatFloat(conversion.Rate),
	})
	if err != nil {
		conversionService.logger.WithComponent("convert").
			Warnf("failed to record conversion %s->%s: %v", conversion.From, conversion.To, err)
	}
}

// UserConversions returns a user's history, newest first
func (conversionService *ConversionService) UserConversions(ctx context.Context, userID uint) ([]store.Conversion, error) {
	conversions, err := conversionService.store.GetUserConversions(ctx, userID)
	if err != nil {
		return nil, storeError("conversion history", err)
	}
	return conversions, nil
}

// RecentConversions returns the newest conversions across all users
func (conversionService *ConversionService) RecentConversions(ctx context.Context, limit int) ([]store.Conversion, error) {
	conversions, err := conversionService.store.GetRecentConversions(ctx, limit)
	if err != nil {
		return nil, storeError("conversion history", err)
	}
	return conversions, nil
}

// mapConversionError converts rate-table errors into the service taxonomy
func mapConversionError(request models.ConvertRequest, err error) error {
	if errors.Is(err, rates.ErrNonPositiveAmount) {
		return &ServiceError{
			Type:    ErrorTypeInvalidInput,
			Message: "invalid conversion parameters",
			Cause:   err,
		}
	}

	var unsupported *rates.UnsupportedCurrencyError
	if errors.As(err, &unsupported) {
		return &ServiceError{
			Type:    ErrorTypeUnsupportedCurrency,
			Message: fmt.Sprintf("exchange rate not available for %s to %s", request.From, request.To),
			Cause:   err,
		}
	}

	return &ServiceError{
		Type:    ErrorTypeInvalidInput,
		Message: "conversion failed",
		Cause:   err,
	}
}
