// Package server exposes the webhook endpoints Health Auto Export posts
// to, plus a liveness probe.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/notionfit/internal/ingest"
	"github.com/claude/notionfit/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc         *ingest.Service
	store       *storage.Store
	log         *slog.Logger
	secretToken string
	whitelist   []string
	router      chi.Router
}

// New creates a new Server with all routes configured. store may be nil.
func New(svc *ingest.Service, store *storage.Store, secretToken string, whitelist []string, log *slog.Logger) *Server {
	s := &Server{
		svc:         svc,
		store:       store,
		log:         log,
		secretToken: secretToken,
		whitelist:   whitelist,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))

	// Export endpoints (IP whitelist plus token)
	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(IPWhitelist(s.whitelist, s.log))
			r.Use(TokenAuth(s.secretToken))
			r.Post("/sleep", s.handleSleep)
			r.Post("/workout", s.handleWorkout)
			r.Post("/health", s.handleHealth)
		})

		r.Get("/healthz", s.handleHealthz)
		r.Get("/ingests", s.handleRecentIngests)
	})
}
