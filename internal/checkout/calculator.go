package checkout

import "github.com/shopspring/decimal"

// amountPrecision is the fractional precision used for crypto amounts. Six
// decimal places keeps small-value assets usable without drowning the shopper
// in digits.
const amountPrecision = 6

// Amount converts a base-currency total into units of a crypto asset priced
// at the given USD spot quote. The second return is false when no usable
// quote exists; callers render that as "price unavailable" instead of a zero
// or nonsense amount. Zero and negative quotes count as unavailable, so the
// division can never blow up.
func Amount(total, quote decimal.Decimal) (decimal.Decimal, bool) {
	if quote.Sign() <= 0 {
		return decimal.Zero, false
	}
	return total.DivRound(quote, amountPrecision), true
}
