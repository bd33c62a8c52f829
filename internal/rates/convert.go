package rates

import (
	"errors"
	"fmt"
)

// ErrNonPositiveAmount is returned when a conversion amount is zero or negative
var ErrNonPositiveAmount = errors.New("amount must be greater than zero")

// UnsupportedCurrencyError is returned when a currency code is not in the table
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("exchange rate not available for %s", e.Code)
}

// Conversion is the result of a cross-rate computation
type Conversion struct {
	From       string
	To         string
	FromAmount float64
	ToAmount   float64
	Rate       float64
}

// Convert computes a USD cross rate between two currency codes. Identical
// codes convert at rate 1. Arithmetic is plain float64, which carries about
// 15 significant digits; no rounding is applied to either the rate or the
// converted amount.
func Convert(table Table, from, to string, amount float64) (Conversion, error) {
	if amount <= 0 {
		return Conversion{}, ErrNonPositiveAmount
	}

	rate := 1.0
	if from != to {
		fromRate, fromFound := table.Lookup(from)
		if !fromFound {
			return Conversion{}, &UnsupportedCurrencyError{Code: from}
		}
		toRate, toFound := table.Lookup(to)
		if !toFound {
			return Conversion{}, &UnsupportedCurrencyError{Code: to}
		}
		rate = toRate / fromRate
	}

	return Conversion{
		From:       from,
		To:         to,
		FromAmount: amount,
		ToAmount:   amount * rate,
		Rate:       rate,
	}, nil
}
