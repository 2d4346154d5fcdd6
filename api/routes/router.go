package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/argentum-atelier/storefront-backend/api/controllers"
	"github.com/argentum-atelier/storefront-backend/api/middleware"
	"github.com/argentum-atelier/storefront-backend/internal/assets"
	"github.com/argentum-atelier/storefront-backend/internal/cart"
	"github.com/argentum-atelier/storefront-backend/internal/catalog"
	checkoutsvc "github.com/argentum-atelier/storefront-backend/internal/checkout"
	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/config"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     controllers.Pinger
	Converter *pricing.Converter
	Catalog   catalog.Service
	Cart      cart.Service
	Assets    assets.Service
	Checkout  checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, deps.Converter, logg))
		r.Get("/products/{id}", controllers.GetProduct(deps.Catalog, deps.Converter, logg))

		r.Get("/pricing/format", controllers.FormatPrice(deps.Converter, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, deps.Converter, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, deps.Catalog, deps.Converter, logg))
				r.Patch("/items/{productID}", controllers.UpdateCartItem(deps.Cart, deps.Converter, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.Cart, deps.Converter, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/assets", controllers.ListPaymentAssets(deps.Assets, logg))
				r.Get("/quote", controllers.GetCheckoutQuote(deps.Checkout, logg))
				r.Get("/session", controllers.GetCheckoutSession(deps.Checkout, logg))
				r.Post("/connect", controllers.ConnectWallet(deps.Checkout, logg))
				r.Post("/disconnect", controllers.DisconnectWallet(deps.Checkout, logg))
				r.Post("/submit", controllers.SubmitPayment(deps.Checkout, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(cfg, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.JWT, logg))
				r.Get("/assets", controllers.AdminListAssets(deps.Assets, logg))
				r.Post("/assets", controllers.AdminCreateAsset(deps.Assets, logg))
				r.Patch("/assets/{id}", controllers.AdminSetAssetEnabled(deps.Assets, logg))
			})
		})
	})

	return r
}
