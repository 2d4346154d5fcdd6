package enums

import "fmt"

// Currency represents the display currencies supported by the storefront.
// Prices are always stored in the base currency; the alternate currency is a
// display-time conversion only.
type Currency string

const (
	CurrencyUSD   Currency = "USD"
	CurrencyToman Currency = "TOMAN"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyToman,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsBase reports whether the currency is the canonical storage currency.
func (c Currency) IsBase() bool {
	return c == CurrencyUSD
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
