// Package app contains the application setup for the storefront service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/eshop/storefront/internal/cart/service"
	"github.com/eshop/storefront/internal/cart/store"
	"github.com/eshop/storefront/internal/catalog"
	"github.com/eshop/storefront/internal/config"
	"github.com/eshop/storefront/internal/transport/rest"
	"github.com/eshop/storefront/pkg/messaging"
	"github.com/eshop/storefront/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Catalog     *catalog.Catalog
	CartService service.CartService
	Logger      *slog.Logger
}

// SetupDependencies wires the catalog and the cart ledger over the provided
// store and publisher.
func SetupDependencies(cfg *config.Config, cartStore store.CartStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	cat := catalog.Default()
	pricing := service.PricingRules{
		TaxRatePercent:   cfg.Pricing.TaxRatePercent,
		FreeShippingOver: cfg.Pricing.FreeShippingOver,
		ShippingFee:      cfg.Pricing.ShippingFee,
	}
	cartService := service.NewService(cartStore, cat, publisher, cfg.Cart.Key, pricing, logger)

	return &Dependencies{
		Catalog:     cat,
		CartService: cartService,
		Logger:      logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the storefront service.
// Also used by tests to exercise the full middleware and routing stack.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Catalog, deps.CartService, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the storefront service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
