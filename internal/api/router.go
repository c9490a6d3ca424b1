package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/config"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/hermes"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/rescorer"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/store"
)

func NewRouter(s store.Store, h hermes.Client, rs *rescorer.Rescorer, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RequestsPerMinute))

	score := NewScoreHandler(rs.Weights())
	products := NewProductsHandler(s, h, rs, cfg.Research.Marketplace, logger)
	frontier := NewFrontierHandler(s)
	admin := NewAdminHandler(s, h)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", score.Score)
		r.Get("/rubric", score.Rubric)
		r.Get("/shortcuts", products.AdHocShortcuts)
		r.Get("/frontier", frontier.Frontier)

		r.Post("/products", products.Create)
		r.Get("/products", products.List)
		r.Post("/products/batch", products.Batch)
		r.Get("/products/{id}", products.Get)
		r.Patch("/products/{id}", products.Update)
		r.Post("/products/{id}/evaluate", products.Evaluate)
		r.Get("/products/{id}/evaluations", products.Evaluations)
		r.Get("/products/{id}/shortcuts", products.Shortcuts)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/stats", admin.Stats)
			r.Delete("/products/{id}", admin.Delete)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
