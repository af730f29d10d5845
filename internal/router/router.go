// Package router sets up the HTTP routes and middleware chain for the
// bakery storefront. Everything is public; the form POST routes get an
// extra rate-limit layer.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bakehouse/internal/handlers"
	"bakehouse/internal/middleware"
	"bakehouse/web"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", public.Health)

	// Pages and payment QR.
	r.Get("/", public.Home)
	r.Get("/unsubscribe", public.Unsubscribe)
	r.Get("/qr/venmo", public.VenmoQR)

	// Form POSTs, rate-limited per client IP.
	limiter := middleware.NewRateLimiter(10, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/submit", public.Submit)
		r.Post("/subscribe", public.Subscribe)
	})

	// Embedded static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	}

	return r
}
