package catalog

import (
	"context"
	"testing"

	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubRepo struct {
	product     *models.Product
	findErr     error
	gotFilters  ListFilters
	listResults []models.Product
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.product, nil
}

func (s *stubRepo) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	s.gotFilters = filters
	return s.listResults, nil
}

func newCatalogService(t *testing.T, repo Repository) Service {
	t.Helper()
	conv, err := pricing.NewConverterFromString("58000")
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	svc, err := NewService(repo, conv)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, &stubRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListConvertsAlternatePriceBounds(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newCatalogService(t, repo)

	min := decimal.NewFromInt(5_800_000)
	_, err := svc.List(context.Background(), ListParams{
		PriceMin: &min,
		Currency: enums.CurrencyToman,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if repo.gotFilters.PriceMin == nil || !repo.gotFilters.PriceMin.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected base bound 100, got %v", repo.gotFilters.PriceMin)
	}
}

func TestListRejectsUnknownCurrency(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, &stubRepo{})

	_, err := svc.List(context.Background(), ListParams{Currency: enums.Currency("EUR")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPaginatesWithBufferRow(t *testing.T) {
	t.Parallel()

	rows := make([]models.Product, 3)
	for i := range rows {
		rows[i] = models.Product{ID: uuid.New(), Name: "Candlestick", Price: decimal.NewFromInt(120)}
	}
	repo := &stubRepo{listResults: rows}
	svc := newCatalogService(t, repo)

	page, err := svc.List(context.Background(), ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if repo.gotFilters.Limit != 3 {
		t.Fatalf("expected buffered limit 3, got %d", repo.gotFilters.Limit)
	}
	if len(page.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(page.Products))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatalf("cursor should point at the last returned row, got %s", cursor.ID)
	}
}

func TestListLastPageHasNoCursor(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{listResults: []models.Product{{ID: uuid.New(), Name: "Salver"}}}
	svc := newCatalogService(t, repo)

	page, err := svc.List(context.Background(), ListParams{Limit: 5})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.NextCursor != "" {
		t.Fatalf("expected empty cursor on last page, got %q", page.NextCursor)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, &stubRepo{})

	_, err := svc.List(context.Background(), ListParams{Cursor: "not-base64!!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
