package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/argentum-atelier/storefront-backend/api/responses"
	"github.com/argentum-atelier/storefront-backend/api/validators"
	"github.com/argentum-atelier/storefront-backend/internal/catalog"
	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type productListView struct {
	Items      []productView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type productView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Price        string  `json:"price"`
	DisplayPrice string  `json:"display_price"`
	Currency     string  `json:"currency"`
	ImageURL     string  `json:"image_url"`
	Collection   *string `json:"collection,omitempty"`
}

func toProductView(product models.Product, converter *pricing.Converter, currency enums.Currency) productView {
	return productView{
		ID:           product.ID.String(),
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price.String(),
		DisplayPrice: converter.Format(product.Price, currency),
		Currency:     currency.String(),
		ImageURL:     product.ImageURL,
		Collection:   product.Collection,
	}
}

// displayCurrency reads the optional currency query parameter, defaulting to
// the base currency.
func displayCurrency(r *http.Request) (enums.Currency, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("currency"))
	if raw == "" {
		return enums.CurrencyUSD, nil
	}
	currency, err := enums.ParseCurrency(strings.ToUpper(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}
	return currency, nil
}

// ListProducts returns the browsable catalog, with prices rendered in the
// requested display currency. Price-range bounds are interpreted in that same
// currency.
func ListProducts(svc catalog.Service, converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priceMin, err := validators.ParseQueryDecimal(r, "price_min")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceMax, err := validators.ParseQueryDecimal(r, "price_max")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := catalog.ListParams{
			PriceMin: priceMin,
			PriceMax: priceMax,
			Currency: currency,
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if collection := strings.TrimSpace(r.URL.Query().Get("collection")); collection != "" {
			params.Collection = &collection
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = limit
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]productView, 0, len(page.Products))
		for _, product := range page.Products {
			views = append(views, toProductView(product, converter, currency))
		}
		responses.WriteSuccess(w, productListView{Items: views, NextCursor: page.NextCursor})
	}
}

// GetProduct returns a single product by id.
func GetProduct(svc catalog.Service, converter *pricing.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency, err := displayCurrency(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductView(*product, converter, currency))
	}
}
