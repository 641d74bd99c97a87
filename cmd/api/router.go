package main

import (
	"context"
	"net/http"
	"time"

	"booksphere/internal/httpx"
	"booksphere/internal/resolution"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	books       *resolution.HTTPHandler
	cache       pinger
	rateLimiter *httpx.RateLimitMiddleware
	corsOrigins []string
	logger      *zap.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.RecoveryMiddleware(d.logger))
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(d.logger))
	r.Use(middleware.CleanPath)
	r.Use(httpx.SecurityHeadersMiddleware(false))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.cache.Ping(ctx); err != nil {
			d.logger.Warn("readiness check failed", zap.Error(err))
			http.Error(w, "cache not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(httpx.CORSMiddleware(d.corsOrigins))
		if d.rateLimiter != nil {
			api.Use(d.rateLimiter.Middleware)
		}
		api.Get("/books", d.books.GetBook)
	})

	return r
}
