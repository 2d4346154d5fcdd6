package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/argentum-atelier/storefront-backend/api/responses"
	"github.com/argentum-atelier/storefront-backend/api/validators"
	"github.com/argentum-atelier/storefront-backend/internal/assets"
	pkgAuth "github.com/argentum-atelier/storefront-backend/pkg/auth"
	"github.com/argentum-atelier/storefront-backend/pkg/config"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/argentum-atelier/storefront-backend/pkg/security"
	"github.com/go-chi/chi/v5"
)

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminLogin checks the admin password and mints a bearer token for the
// asset-administration endpoints.
func AdminLogin(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ok, err := security.VerifyPassword(payload.Password, cfg.Admin.PasswordHash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password"))
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		token, err := pkgAuth.MintAdminToken(cfg.JWT, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"token":      token,
			"expires_in": cfg.JWT.ExpirationMinutes * 60,
		})
	}
}

type createAssetRequest struct {
	Symbol  string `json:"symbol" validate:"required,min=2,max=12"`
	Name    string `json:"name" validate:"required"`
	Network string `json:"network" validate:"required"`
	Address string `json:"address" validate:"required"`
	PriceID string `json:"price_id" validate:"required"`
	Enabled bool   `json:"enabled"`
}

type setAssetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// AdminListAssets returns every configured asset, enabled or not.
func AdminListAssets(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}

// AdminCreateAsset adds a payment asset to the configured list.
func AdminCreateAsset(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createAssetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.Create(r.Context(), assets.CreateInput{
			Symbol:  payload.Symbol,
			Name:    payload.Name,
			Network: payload.Network,
			Address: payload.Address,
			PriceID: payload.PriceID,
			Enabled: payload.Enabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

// AdminSetAssetEnabled flips an asset's availability at checkout.
func AdminSetAssetEnabled(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id"))
			return
		}

		var payload setAssetEnabledRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.SetEnabled(r.Context(), id, payload.Enabled)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, asset)
	}
}
