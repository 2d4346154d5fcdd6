package assets

import (
	"context"

	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes crypto asset persistence.
type Repository interface {
	ListEnabled(ctx context.Context) ([]models.CryptoAsset, error)
	ListAll(ctx context.Context) ([]models.CryptoAsset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CryptoAsset, error)
	FindBySymbol(ctx context.Context, symbol string) (*models.CryptoAsset, error)
	Create(ctx context.Context, asset *models.CryptoAsset) (*models.CryptoAsset, error)
	Update(ctx context.Context, asset *models.CryptoAsset) (*models.CryptoAsset, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListEnabled(ctx context.Context) ([]models.CryptoAsset, error) {
	var assets []models.CryptoAsset
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at ASC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.CryptoAsset, error) {
	var assets []models.CryptoAsset
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CryptoAsset, error) {
	var asset models.CryptoAsset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repository) FindBySymbol(ctx context.Context, symbol string) (*models.CryptoAsset, error) {
	var asset models.CryptoAsset
	if err := r.db.WithContext(ctx).First(&asset, "symbol = ?", symbol).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repository) Create(ctx context.Context, asset *models.CryptoAsset) (*models.CryptoAsset, error) {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *repository) Update(ctx context.Context, asset *models.CryptoAsset) (*models.CryptoAsset, error) {
	if err := r.db.WithContext(ctx).Save(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}
