package pricing

import (
	"fmt"

	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Converter renders base-currency prices in a selected display currency.
// Conversion is display-only: stored prices are always base currency, so cart
// totals never depend on which currency the UI happens to show.
type Converter struct {
	rate    decimal.Decimal
	printer *message.Printer
}

// NewConverter builds a converter with the static base-to-alternate rate.
func NewConverter(rate decimal.Decimal) (*Converter, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("alternate rate must be positive, got %s", rate)
	}
	return &Converter{
		rate:    rate,
		printer: message.NewPrinter(language.English),
	}, nil
}

// NewConverterFromString parses the configured rate string.
func NewConverterFromString(rate string) (*Converter, error) {
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parsing alternate rate %q: %w", rate, err)
	}
	return NewConverter(parsed)
}

// Rate exposes the static multiplier for collaborators (price-range filter,
// checkout baseline).
func (c *Converter) Rate() decimal.Decimal {
	return c.rate
}

// Convert returns the price in the requested display currency. The alternate
// currency has no fractional subunit, so conversion rounds to a whole amount.
func (c *Converter) Convert(price decimal.Decimal, currency enums.Currency) decimal.Decimal {
	if currency == enums.CurrencyToman {
		return price.Mul(c.rate).Round(0)
	}
	return price
}

// ToBase maps a display-currency amount back to base currency. Used by the
// price-range filter so bounds entered in either currency compare against
// stored base prices.
func (c *Converter) ToBase(amount decimal.Decimal, currency enums.Currency) decimal.Decimal {
	if currency == enums.CurrencyToman {
		return amount.Div(c.rate)
	}
	return amount
}

// Format renders a base-currency price for display in the given currency.
func (c *Converter) Format(price decimal.Decimal, currency enums.Currency) string {
	if currency == enums.CurrencyToman {
		converted := c.Convert(price, currency)
		return c.printer.Sprintf("%d Toman", converted.Round(0).IntPart())
	}
	amount, _ := price.Round(2).Float64()
	return c.printer.Sprintf("$%.2f", amount)
}
