package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vercel-bot/engine/internal/api/handlers"
	mw "github.com/vercel-bot/engine/internal/api/middleware"
)

type Dependencies struct {
	Notifier      handlers.Notifier
	WebhookSecret []byte
	Health        *handlers.HealthHandler
	RateLimiter   *mw.RateLimiter
	// Registry receives the server's collectors and backs /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry
}

func NewRouter(dep Dependencies) http.Handler {
	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics := mw.NewMetrics(reg)

	limiter := dep.RateLimiter
	if limiter == nil {
		limiter = mw.NewRateLimiter(10, 20)
	}
	limiter.OnLimit(metrics.RateLimited)

	hh := dep.Health
	if hh == nil {
		hh = handlers.NewHealthHandler()
	}

	r := chi.NewRouter()

	r.Use(chimid.RealIP)
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(metrics.Instrument)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	wh := handlers.NewWebhookHandler(dep.Notifier, metrics)
	r.Route("/webhook", func(hr chi.Router) {
		hr.Use(limiter.Handler)
		hr.Use(mw.VerifySignature(dep.WebhookSecret))
		hr.Post("/vercel", wh.Vercel)
	})

	return r
}
