package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/argentum-atelier/storefront-backend/pkg/db"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the crypto asset catalog. Shoppers only ever see enabled
// assets; the admin surface manages the full list.
type Service interface {
	ListEnabled(ctx context.Context) ([]models.CryptoAsset, error)
	Search(ctx context.Context, query string) ([]models.CryptoAsset, error)
	GetEnabledBySymbol(ctx context.Context, symbol string) (*models.CryptoAsset, error)
	EnabledPriceIDs(ctx context.Context) ([]string, error)

	ListAll(ctx context.Context) ([]models.CryptoAsset, error)
	Create(ctx context.Context, input CreateInput) (*models.CryptoAsset, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*models.CryptoAsset, error)
}

// CreateInput captures the admin payload for a new payment asset.
type CreateInput struct {
	Symbol  string
	Name    string
	Network string
	Address string
	PriceID string
	Enabled bool
}

type service struct {
	repo Repository
}

// NewService builds the asset service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assets repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListEnabled(ctx context.Context) ([]models.CryptoAsset, error) {
	assets, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assets")
	}
	return assets, nil
}

// Search filters enabled assets by a case-insensitive substring match against
// name and symbol. An empty query returns everything enabled.
func (s *service) Search(ctx context.Context, query string) ([]models.CryptoAsset, error) {
	assets, err := s.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return assets, nil
	}

	matched := make([]models.CryptoAsset, 0, len(assets))
	for _, asset := range assets {
		if strings.Contains(strings.ToLower(asset.Name), needle) ||
			strings.Contains(strings.ToLower(asset.Symbol), needle) {
			matched = append(matched, asset)
		}
	}
	return matched, nil
}

func (s *service) GetEnabledBySymbol(ctx context.Context, symbol string) (*models.CryptoAsset, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset symbol is required")
	}

	asset, err := s.repo.FindBySymbol(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	if !asset.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return asset, nil
}

// EnabledPriceIDs returns the distinct feed identifiers the poller must fetch.
func (s *service) EnabledPriceIDs(ctx context.Context) ([]string, error) {
	assets, err := s.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		id := strings.TrimSpace(asset.PriceID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.CryptoAsset, error) {
	assets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assets")
	}
	return assets, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.CryptoAsset, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	asset := &models.CryptoAsset{
		ID:      uuid.New(),
		Symbol:  strings.ToUpper(strings.TrimSpace(input.Symbol)),
		Name:    strings.TrimSpace(input.Name),
		Network: strings.TrimSpace(input.Network),
		Address: strings.TrimSpace(input.Address),
		PriceID: strings.ToLower(strings.TrimSpace(input.PriceID)),
		Enabled: input.Enabled,
	}

	created, err := s.repo.Create(ctx, asset)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_crypto_assets_symbol") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "asset symbol already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create asset")
	}
	return created, nil
}

func (s *service) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*models.CryptoAsset, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}

	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}

	asset.Enabled = enabled
	updated, err := s.repo.Update(ctx, asset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update asset")
	}
	return updated, nil
}

func validateCreateInput(input CreateInput) error {
	if strings.TrimSpace(input.Symbol) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "symbol is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Network) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "network is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receiving address is required")
	}
	if strings.TrimSpace(input.PriceID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "price feed id is required")
	}
	return nil
}
