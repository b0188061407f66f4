package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/config"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/health"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Search SearchService
	Admin  CatalogAdminService
	Health *health.Handler
	Config *config.Config
	Logger *slog.Logger
}

// NewRouter registers all routes with the shared middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.Config.CORSAllowedOrigins
	corsCfg.Environment = deps.Config.Environment

	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("search"))

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, deps.Config.PprofAllowedCIDRs, deps.Logger)

	searchHandler := NewSearchHandler(deps.Search, deps.Logger)
	adminHandler := NewAdminHandler(deps.Admin, deps.Logger)

	r.Route("/api/v1/search", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(30 * time.Second))
			r.Get("/", searchHandler.Search)
			r.Get("/suggest", searchHandler.Suggest)
		})
		r.With(ContentTypeJSON).Post("/reindex", adminHandler.Reindex)
	})

	r.Route("/api/v1/catalog/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/", adminHandler.UpsertProduct)
		r.Post("/bulk", adminHandler.BulkUpsertProducts)
		r.Delete("/{id}", adminHandler.DeleteProduct)
	})

	return r
}
