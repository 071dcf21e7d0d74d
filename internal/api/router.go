// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/auth"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/config"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/middleware"
)

// Router assembles the HTTP surface from handlers and middleware.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	cfg     *config.SecurityConfig
}

// NewRouter builds the service router.
func NewRouter(handler *Handler, authMW *auth.Middleware, cfg *config.SecurityConfig) *Router {
	return &Router{handler: handler, authMW: authMW, cfg: cfg}
}

// Setup wires all routes. Read endpoints use optional auth so responses
// can be annotated for signed-in users; write endpoints require a token.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	h := router.handler

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rateLimit(router.cfg, 1000, time.Minute))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(rateLimit(router.cfg, 10, time.Minute))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(router.authMW.RequireAuth).Get("/me", h.Me)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(rateLimit(router.cfg, router.cfg.RateLimitReqs, router.cfg.RateLimitWindow))

		r.Route("/movies", func(r chi.Router) {
			r.Use(router.authMW.OptionalAuth)
			r.Get("/popular", h.Popular)
			r.Get("/top-rated", h.TopRated)
			r.Get("/search", h.Search)
			r.Get("/filter", h.Filter)
			r.With(router.authMW.RequireAuth).Get("/because-you-liked", h.BecauseYouLiked)
			r.Get("/{movieID}", h.MovieDetail)
			r.Get("/{movieID}/recommendations", h.Recommendations)
			r.Get("/{movieID}/trailer", h.Trailer)
		})

		r.Get("/genres", h.Genres)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/status", h.RebuildStatus)
			r.With(router.authMW.RequireAuth).Post("/rebuild", h.RebuildTrigger)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.authMW.RequireAuth)
			r.Post("/ratings/{movieID}", h.Rate)
			r.Get("/ratings", h.Ratings)
			r.Get("/watchlist", h.WatchlistGet)
			r.Post("/watchlist/{movieID}", h.WatchlistAdd)
			r.Delete("/watchlist/{movieID}", h.WatchlistRemove)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit returns an IP-keyed limiter, or a pass-through when rate
// limiting is disabled in configuration.
func rateLimit(cfg *config.SecurityConfig, requests int, window time.Duration) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(requests, window)
}
