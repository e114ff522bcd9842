package httpapi

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qnahub/backend/internal/domain"
)

// Options carries handler-level settings.
type Options struct {
	// SessionTTL controls how long the anonymous vote session cookie lives.
	SessionTTL time.Duration
}

// Register attaches API routes to the provided router.
func Register(r chi.Router, logger *slog.Logger, domainServices domain.Container, opts Options) {
	r.Get("/v1/ping", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"time":    time.Now().UTC().Format(time.RFC3339),
			"server":  "qnahub-backend",
			"version": "v1",
		})
	})

	sessions := newSessionManager(opts.SessionTTL)

	registerPostRoutes(r, logger, domainServices.Posts)
	registerQuestionRoutes(r, logger, domainServices.Questions)
	registerAnswerRoutes(r, logger, domainServices.Answers)
	registerLikeRoutes(r, logger, domainServices, sessions)
	registerAuthRoutes(r, logger, domainServices.Users)
}
