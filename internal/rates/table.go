package rates

import "strings"

// Table is an immutable set of USD-denominated rates keyed by currency code.
// A value is how many units of the currency one US dollar buys. The table is
// hand-maintained placeholder data, not a live market feed; callers own the
// decision to treat it as good enough for indicative conversions.
type Table struct {
	rates map[string]float64
}

// NewTable copies the given rates into an immutable Table
func NewTable(rates map[string]float64) Table {
	copied := make(map[string]float64, len(rates))
	for code, rate := range rates {
		copied[strings.ToUpper(code)] = rate
	}
	return Table{rates: copied}
}

// Lookup returns the USD-denominated rate for a currency code
func (table Table) Lookup(code string) (float64, bool) {
	rate, found := table.rates[strings.ToUpper(code)]
	return rate, found
}

// Len returns the number of currencies in the table
func (table Table) Len() int {
	return len(table.rates)
}

// DefaultTable returns the built-in rate table covering the fiat and crypto
// codes the dashboard supports.
func DefaultTable() Table {
	return NewTable(map[string]float64{
		// Major fiat currencies (base: USD)
		"USD": 1.0,
		"EUR": 0.85,
		"GBP": 0.73,
		"JPY": 110.0,
		"CHF": 0.92,
		"CAD": 1.25,
		"AUD": 1.35,
		"NZD": 1.45,

		// European currencies
		"RON": 4.15,
		"MDL": 17.8,
		"PLN": 3.95,
		"CZK": 22.5,
		"HUF": 295.0,
		"BGN": 1.66,
		"HRK": 6.4,
		"SEK": 8.85,
		"NOK": 8.65,
		"DKK": 6.35,
		"ISK": 125.0,
		"ALL": 98.5,
		"BAM": 1.66,
		"MKD": 52.3,
		"RSD": 99.8,
		"UAH": 27.5,
		"BYN": 2.45,

		// Asian currencies
		"CNY": 6.45,
		"RUB": 74.5,
		"INR": 74.2,
		"KRW": 1180.0,
		"SGD": 1.35,
		"HKD": 7.8,
		"TWD": 28.2,
		"MYR": 4.15,
		"IDR": 14250.0,
		"PHP": 49.8,
		"VND": 23100.0,
		"THB": 31.5,
		"LAK": 11500.0,
		"KHR": 4050.0,
		"MMK": 1680.0,
		"NPR": 118.5,
		"LKR": 200.0,
		"BDT": 84.8,
		"PKR": 155.0,
		"AFN": 78.2,
		"UZS": 10650.0,
		"KZT": 425.0,
		"KGS": 84.7,
		"TJS": 11.3,
		"TMT": 3.5,
		"AZN": 1.7,
		"GEL": 2.65,
		"AMD": 485.0,

		// Middle East & Africa
		"AED": 3.67,
		"SAR": 3.75,
		"QAR": 3.64,
		"KWD": 0.30,
		"BHD": 0.377,
		"OMR": 0.385,
		"JOD": 0.71,
		"LBP": 1507.5,
		"SYP": 2512.0,
		"IQD": 1310.0,
		"IRR": 42105.0,
		"ILS": 3.25,
		"TRY": 8.4,
		"EGP": 15.7,
		"ZAR": 14.8,
		"NGN": 411.0,
		"GHS": 5.8,
		"KES": 108.0,
		"UGX": 3550.0,
		"TZS": 2318.0,
		"RWF": 1025.0,
		"ETB": 43.8,
		"MAD": 8.85,
		"TND": 2.78,
		"DZD": 133.5,
		"LYD": 4.48,
		"XOF": 557.0, // West African CFA
		"XAF": 557.0, // Central African CFA

		// Americas
		"MXN": 20.1,
		"BRL": 5.2,
		"ARS": 98.5,
		"CLP": 715.0,
		"COP": 3875.0,
		"PEN": 3.65,
		"UYU": 44.2,
		"BOB": 6.91,
		"PYG": 7025.0,
		"VES": 4.18,
		"GTQ": 7.72,
		"HNL": 24.6,
		"NIO": 35.8,
		"CRC": 615.0,
		"PAB": 1.0,
		"DOP": 56.8,
		"HTG": 91.2,
		"JMD": 152.0,
		"BBD": 2.0,
		"TTD": 6.78,
		"GYD": 209.0,
		"SRD": 14.3,
		"FKP": 0.73,

		// Oceania & others
		"FJD": 2.08,
		"PGK": 3.53,
		"SBD": 8.15,
		"VUV": 112.0,
		"WST": 2.58,
		"TOP": 2.27,

		// Major cryptocurrencies
		"BTC":   0.000023,
		"ETH":   0.00035,
		"BNB":   0.002,
		"ADA":   0.85,
		"SOL":   0.011,
		"XRP":   1.85,
		"DOT":   0.065,
		"DOGE":  14.5,
		"AVAX":  0.028,
		"SHIB":  85000.0,
		"MATIC": 1.25,
		"LTC":   0.0075,
		"UNI":   0.095,
		"LINK":  0.042,
		"ATOM":  0.075,
		"BCH":   0.0018,
		"XLM":   8.5,
		"VET":   45.0,
		"FIL":   0.065,
		"MANA":  2.85,
	})
}
