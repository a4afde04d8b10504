// Package app contains the application setup for the ProductService.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productapi/internal/config"
	"github.com/abgdnv/productapi/internal/platform/auth"
	"github.com/abgdnv/productapi/internal/product/service"
	"github.com/abgdnv/productapi/internal/product/store"
	"github.com/abgdnv/productapi/internal/product/transport/rest"
	"github.com/abgdnv/productapi/pkg/server"
	"github.com/abgdnv/productapi/pkg/telemetry"
	"github.com/abgdnv/productapi/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "product"

type Dependencies struct {
	Store          store.ProductStore
	ProductService service.ProductService
	// Checker is nil when auth is disabled.
	Checker  *auth.Checker
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// SetupDependencies builds the store, seeded unless disabled, and everything on top of it.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	var seed []store.Product
	if !cfg.Seed.Disabled {
		seed = store.DefaultCatalog()
	}
	pStore := store.NewInMemoryStore(seed...)

	var checker *auth.Checker
	if cfg.Auth.Enabled {
		checker = auth.NewChecker(cfg.Auth.APIKey)
	}

	return &Dependencies{
		Store:          pStore,
		ProductService: service.NewService(pStore, logger),
		Checker:        checker,
		Registry:       prometheus.NewRegistry(),
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the routes and middleware for the ProductService application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	var extra []func(http.Handler) http.Handler
	if cfg.Metrics.Enabled {
		extra = append(extra, web.NewMetrics(deps.Registry, metricsNamespace).Middleware)
	}

	mux := server.NewChiRouter(deps.Logger, extra...)
	wireRoutes(mux, deps)

	if cfg.Metrics.Enabled {
		registerCatalogMetrics(deps)
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}

	if cfg.Telemetry.Enabled {
		return telemetry.InstrumentHandler(mux, "product-api")
	}
	return mux
}

// wireRoutes sets up the HTTP routes for the ProductService application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger, deps.Checker)
	productHandler.RegisterRoutes(mux)
}

// registerCatalogMetrics exposes runtime collectors and the current catalog size.
func registerCatalogMetrics(deps *Dependencies) {
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promauto.With(deps.Registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_size",
		Help:      "Number of products currently stored.",
	}, func() float64 {
		return float64(deps.Store.Len())
	})
}

// SetupHttpServer creates and configures an HTTP server for the ProductService application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux, deps.Logger)
}
