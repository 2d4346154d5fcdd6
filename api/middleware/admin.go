package middleware

import (
	"net/http"
	"strings"

	"github.com/argentum-atelier/storefront-backend/api/responses"
	pkgAuth "github.com/argentum-atelier/storefront-backend/pkg/auth"
	"github.com/argentum-atelier/storefront-backend/pkg/config"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
)

// AdminAuth validates a bearer token minted by the admin login endpoint.
func AdminAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAdminToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithField(ctx, "admin_token_id", claims.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
