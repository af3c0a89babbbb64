package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"resume-chat-backend/internal/handlers"
	"resume-chat-backend/internal/middleware"
)

type Options struct {
	AllowedOrigins []string
	// ServerKeyRoute mounts POST / using ServerKey instead of the header.
	ServerKeyRoute bool
	ServerKey      string
}

func New(
	keyHandler *handlers.KeyHandler,
	chatHandler *handlers.ChatHandler,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Caller-supplied key ────
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey)
		r.Post("/validate-key", keyHandler.ValidateKey)
		r.Post("/generate", chatHandler.Generate)
	})

	// ──── Server key from the environment ────
	if opts.ServerKeyRoute {
		r.With(middleware.ServerKey(opts.ServerKey)).Post("/", chatHandler.Generate)
	}

	return r
}
