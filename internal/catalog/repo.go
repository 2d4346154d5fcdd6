package catalog

import (
	"context"

	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/argentum-atelier/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes product catalog persistence.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
}

// ListFilters describe the browse endpoint's filter knobs. Price bounds are
// base currency; the service converts display-currency input before querying.
type ListFilters struct {
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Collection *string
	Cursor     *pagination.Cursor
	Limit      int
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("id ASC")

	if filters.PriceMin != nil {
		query = query.Where("price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("price <= ?", *filters.PriceMax)
	}
	if filters.Collection != nil && *filters.Collection != "" {
		query = query.Where("collection = ?", *filters.Collection)
	}
	if filters.Cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", filters.Cursor.CreatedAt, filters.Cursor.ID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
