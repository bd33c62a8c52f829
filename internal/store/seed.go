package store

import "context"

type seedCurrency struct {
	symbol string
	name   string
	price  string
}

// Seed list mirrors the hand-maintained fiat catalogue the dashboard started
// with. Prices are indicative placeholders; syncs overwrite them.
var fiatSeedCurrencies = []seedCurrency{
	// Major fiat currencies
	{"USD", "US Dollar", "1.0000"},
	{"EUR", "Euro", "0.8500"},
	{"GBP", "British Pound", "0.7300"},
	{"JPY", "Japanese Yen", "110.0000"},
	{"CHF", "Swiss Franc", "0.9200"},
	{"CAD", "Canadian Dollar", "1.2500"},
	{"AUD", "Australian Dollar", "1.3500"},
	{"NZD", "New Zealand Dollar", "1.4500"},

	// European currencies
	{"RON", "Romanian Leu", "4.1500"},
	{"MDL", "Moldovan Leu", "17.8000"},
	{"PLN", "Polish Zloty", "3.9500"},
	{"CZK", "Czech Koruna", "22.5000"},
	{"HUF", "Hungarian Forint", "295.0000"},
	{"BGN", "Bulgarian Lev", "1.6600"},
	{"HRK", "Croatian Kuna", "6.4000"},
	{"SEK", "Swedish Krona", "8.8500"},
	{"NOK", "Norwegian Krone", "8.6500"},
	{"DKK", "Danish Krone", "6.3500"},
	{"ISK", "Icelandic Krona", "125.0000"},
	{"ALL", "Albanian Lek", "98.5000"},
	{"BAM", "Bosnia Convertible Mark", "1.6600"},
	{"MKD", "Macedonian Denar", "52.3000"},
	{"RSD", "Serbian Dinar", "99.8000"},
	{"UAH", "Ukrainian Hryvnia", "27.5000"},
	{"BYN", "Belarusian Ruble", "2.4500"},

	// Asian currencies
	{"CNY", "Chinese Yuan", "6.4500"},
	{"RUB", "Russian Ruble", "74.5000"},
	{"INR", "Indian Rupee", "74.2000"},
	{"KRW", "South Korean Won", "1180.0000"},
	{"SGD", "Singapore Dollar", "1.3500"},
	{"HKD", "Hong Kong Dollar", "7.8000"},
	{"TWD", "Taiwan Dollar", "28.2000"},
	{"MYR", "Malaysian Ringgit", "4.1500"},
	{"IDR", "Indonesian Rupiah", "14250.0000"},
	{"PHP", "Philippine Peso", "49.8000"},
	{"VND", "Vietnamese Dong", "23100.0000"},
	{"THB", "Thai Baht", "31.5000"},
	{"LAK", "Lao Kip", "11500.0000"},
	{"KHR", "Cambodian Riel", "4050.0000"},
	{"MMK", "Myanmar Kyat", "1680.0000"},
	{"NPR", "Nepalese Rupee", "118.5000"},
	{"LKR", "Sri Lankan Rupee", "200.0000"},
	{"BDT", "Bangladeshi Taka", "84.8000"},
	{"PKR", "Pakistani Rupee", "155.0000"},
	{"AFN", "Afghan Afghani", "78.2000"},
	{"UZS", "Uzbek Som", "10650.0000"},
	{"KZT", "Kazakh Tenge", "425.0000"},
	{"KGS", "Kyrgyz Som", "84.7000"},
	{"TJS", "Tajik Somoni", "11.3000"},
	{"TMT", "Turkmen Manat", "3.5000"},
	{"AZN", "Azerbaijani Manat", "1.7000"},
	{"GEL", "Georgian Lari", "2.6500"},
	{"AMD", "Armenian Dram", "485.0000"},

	// Middle East & Africa
	{"AED", "UAE Dirham", "3.6700"},
	{"SAR", "Saudi Riyal", "3.7500"},
	{"QAR", "Qatari Riyal", "3.6400"},
	{"KWD", "Kuwaiti Dinar", "0.3000"},
	{"BHD", "Bahraini Dinar", "0.3770"},
	{"OMR", "Omani Rial", "0.3850"},
	{"JOD", "Jordanian Dinar", "0.7100"},
	{"ILS", "Israeli Shekel", "3.2500"},
	{"TRY", "Turkish Lira", "8.4000"},
	{"EGP", "Egyptian Pound", "15.7000"},
	{"ZAR", "South African Rand", "14.8000"},
	{"NGN", "Nigerian Naira", "411.0000"},
	{"GHS", "Ghanaian Cedi", "5.8000"},
	{"KES", "Kenyan Shilling", "108.0000"},
	{"UGX", "Ugandan Shilling", "3550.0000"},
	{"TZS", "Tanzanian Shilling", "2318.0000"},
	{"RWF", "Rwandan Franc", "1025.0000"},
	{"ETB", "Ethiopian Birr", "43.8000"},
	{"MAD", "Moroccan Dirham", "8.8500"},
	{"TND", "Tunisian Dinar", "2.7800"},
	{"DZD", "Algerian Dinar", "133.5000"},

	// Americas
	{"MXN", "Mexican Peso", "20.1000"},
	{"BRL", "Brazilian Real", "5.2000"},
	{"ARS", "Argentine Peso", "98.5000"},
	{"CLP", "Chilean Peso", "715.0000"},
	{"COP", "Colombian Peso", "3875.0000"},
	{"PEN", "Peruvian Sol", "3.6500"},
	{"UYU", "Uruguayan Peso", "44.2000"},
	{"BOB", "Bolivian Boliviano", "6.9100"},
	{"PYG", "Paraguayan Guarani", "7025.0000"},
	{"GTQ", "Guatemalan Quetzal", "7.7200"},
	{"CRC", "Costa Rican Colon", "615.0000"},
	{"DOP", "Dominican Peso", "56.8000"},
	{"JMD", "Jamaican Dollar", "152.0000"},
}

// SeedCurrencies inserts the built-in fiat catalogue so the dashboard has
// data before the first sync runs. Seeding only happens while the currencies
// table is empty; once any row exists the catalogue is left alone, so a
// restart never resets synced prices back to the placeholders.
func SeedCurrencies(ctx context.Context, s Store) (int, error) {
	existing, err := s.GetAllCurrencies(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	seeded := 0
	for _, currency := range fiatSeedCurrencies {
		_, err := s.UpsertCurrency(ctx, CurrencyUpsert{
			Symbol:       currency.symbol,
			Name:         currency.name,
			Type:         CurrencyTypeForex,
			CurrentPrice: currency.price,
			IsActive:     true,
		})
		if err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
