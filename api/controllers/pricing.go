package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/argentum-atelier/storefront-backend/api/responses"
	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
)

// FormatPrice renders a base-currency amount in the requested display
// currency. The conversion is display-only; nothing stored ever changes
// currency.
func FormatPrice(converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("price"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price is required"))
			return
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be numeric"))
			return
		}
		if price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}

		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"currency":  currency.String(),
			"amount":    converter.Convert(price, currency).String(),
			"formatted": converter.Format(price, currency),
			"rate":      converter.Rate().String(),
		})
	}
}
