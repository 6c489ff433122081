package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"literature/internal/config"
	localMiddleware "literature/internal/middleware"
)

// RouterOptions allows customization of router setup for tests.
type RouterOptions struct {
	DisableRateLimiting  bool
	DisableRequestLogger bool
	CustomMiddleware     []func(http.Handler) http.Handler
}

// SetupRouter creates the application router with all routes and middleware.
func SetupRouter(h *Handler, cfg *config.ServerConfig, opts *RouterOptions) *chi.Mux {
	if opts == nil {
		opts = &RouterOptions{}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !opts.DisableRequestLogger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Use(localMiddleware.SecurityHeaders())

	if !opts.DisableRateLimiting {
		rateLimiter := localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
	}

	for _, mw := range opts.CustomMiddleware {
		r.Use(mw)
	}

	// REST surface: room discovery and creation. Timeouts and body
	// limits apply here but must not touch the WebSocket route.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(localMiddleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))

		r.Post("/api/create-room", h.CreateRoom)
		r.Get("/api/list-rooms", h.ListRooms)
		r.Get("/api/room/{code}/qr", h.RoomQR)
	})

	// Bidirectional game channel.
	r.Get("/ws/room/{room_id}/{user_token}/{username}", h.RoomSocket)

	// Health check endpoints (no auth required).
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
