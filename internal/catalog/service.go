package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog reads. The catalog owns product data; the cart only
// ever copies fields out of it.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params ListParams) (*Page, error)
}

// ListParams carry browse filters. Price bounds arrive in the shopper's
// selected display currency and are mapped back to base before querying.
type ListParams struct {
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Currency   enums.Currency
	Collection *string
	Limit      int
	Cursor     string
}

// Page is one slice of the catalog. NextCursor is empty on the last page.
type Page struct {
	Products   []models.Product
	NextCursor string
}

type service struct {
	repo      Repository
	converter *pricing.Converter
}

// NewService builds the catalog service.
func NewService(repo Repository, converter *pricing.Converter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if converter == nil {
		return nil, fmt.Errorf("pricing converter required")
	}
	return &service{repo: repo, converter: converter}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*Page, error) {
	currency := params.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}

	filters := ListFilters{Collection: params.Collection}
	if params.PriceMin != nil {
		min := s.converter.ToBase(*params.PriceMin, currency)
		filters.PriceMin = &min
	}
	if params.PriceMax != nil {
		max := s.converter.ToBase(*params.PriceMax, currency)
		filters.PriceMax = &max
	}

	limit := pagination.NormalizeLimit(params.Limit)
	filters.Limit = pagination.LimitWithBuffer(limit)
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		filters.Cursor = cursor
	}

	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &Page{Products: products}
	if len(products) > limit {
		page.Products = products[:limit]
		last := page.Products[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}
