package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/sitekit/internal/delivery/http/handler"
	"github.com/user/sitekit/internal/delivery/http/middleware"
	"github.com/user/sitekit/pkg/metrics"
)

// New builds the development router. gatherer backs /metrics and is usually
// the registry m was created on.
func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))

	r.Get("/healthz", h.HandleHealthCheck)
	r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/audit", h.HandleLatestAudit)
	})

	return r
}
