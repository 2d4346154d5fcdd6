package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/argentum-atelier/storefront-backend/api/middleware"
	"github.com/argentum-atelier/storefront-backend/api/responses"
	"github.com/argentum-atelier/storefront-backend/api/validators"
	"github.com/argentum-atelier/storefront-backend/internal/cart"
	"github.com/argentum-atelier/storefront-backend/internal/catalog"
	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type cartView struct {
	Lines        []cart.Line `json:"lines"`
	ItemCount    int         `json:"item_count"`
	Total        string      `json:"total"`
	DisplayTotal string      `json:"display_total"`
	Currency     string      `json:"currency"`
}

func toCartView(lines []cart.Line, converter *pricing.Converter, currency enums.Currency) cartView {
	if lines == nil {
		lines = []cart.Line{}
	}
	count := 0
	total := decimal.Zero
	for _, line := range lines {
		count += line.Quantity
		total = total.Add(line.Subtotal())
	}
	return cartView{
		Lines:        lines,
		ItemCount:    count,
		Total:        total.String(),
		DisplayTotal: converter.Format(total, currency),
		Currency:     currency.String(),
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the session's cart with totals in the requested display
// currency.
func GetCart(svc cart.Service, converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		lines, err := svc.Lines(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartView(lines, converter, currency))
	}
}

// AddCartItem merges a catalog product into the cart. The product's current
// name, price and image are snapshotted into the line.
func AddCartItem(svc cart.Service, products catalog.Service, converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := products.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		lines, err := svc.Add(r.Context(), sessionID, *product, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toCartView(lines, converter, currency))
	}
}

// UpdateCartItem sets a line's quantity. Zero or a negative value removes the
// line; an unknown product id leaves the cart as-is.
func UpdateCartItem(svc cart.Service, converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productID")
		if _, err := uuid.Parse(productID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		lines, err := svc.UpdateQuantity(r.Context(), sessionID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartView(lines, converter, currency))
	}
}

// RemoveCartItem deletes a line unconditionally.
func RemoveCartItem(svc cart.Service, converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productID")
		if _, err := uuid.Parse(productID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		lines, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartView(lines, converter, currency))
	}
}

// ClearCart empties the session's cart.
func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
