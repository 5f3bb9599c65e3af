package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/infra/http/handlers"
	"github.com/robinblocks/site/internal/infra/http/middleware"
)

type routes struct {
	Subscribe *handlers.SubscribeHandler
	Pages     *handlers.PageHandler
	Health    *handlers.HealthHandler
}

func newRouter(rt routes, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Every method reaches the handler so that 405 keeps the JSON error body.
	r.HandleFunc("/api/subscribe", rt.Subscribe.Handle)

	r.Get("/", rt.Pages.Home)
	r.Post("/signup", rt.Pages.Signup)
	r.Post("/signup/reset", rt.Pages.Reset)
	r.Get("/veo-3-guide", rt.Pages.Guide)

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
