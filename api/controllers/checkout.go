package controllers

import (
	"net/http"
	"strings"

	"github.com/argentum-atelier/storefront-backend/api/middleware"
	"github.com/argentum-atelier/storefront-backend/api/responses"
	"github.com/argentum-atelier/storefront-backend/internal/assets"
	"github.com/argentum-atelier/storefront-backend/internal/checkout"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
)

// ListPaymentAssets returns the enabled crypto assets, optionally filtered by
// a case-insensitive substring match on name or symbol.
func ListPaymentAssets(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// GetCheckoutQuote prices the session's cart in the selected asset. With no
// asset parameter the first enabled asset is used. An unavailable spot price
// comes back as available=false, not an error.
func GetCheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("asset")))

		quote, err := svc.Quote(r.Context(), sessionID, symbol)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// GetCheckoutSession returns the payment flow state.
func GetCheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		session, err := svc.Session(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// ConnectWallet requests account access from the wallet provider.
func ConnectWallet(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		session, err := svc.Connect(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// DisconnectWallet drops the wallet connection.
func DisconnectWallet(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		session, err := svc.Disconnect(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SubmitPayment sends the computed amount through the connected wallet. On
// success the cart is cleared and the receipt carries the confirmation id.
func SubmitPayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		receipt, err := svc.Submit(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
