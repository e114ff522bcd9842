package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"log/slog"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails there's not much we can do; log to stderr.
		slog.Default().Error("failed to encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePagination reads offset/limit query parameters. ok=false means an
// error response was already written.
func parsePagination(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	query := r.URL.Query()
	offset, limit = 0, defaultPageLimit

	if v := query.Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset parameter")
			return 0, 0, false
		}
		offset = parsed
	}
	if v := query.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		// Zero is rejected too: the memory backend reads it as unbounded
		// and postgres as no rows, so it can never mean one thing.
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit parameter")
			return 0, 0, false
		}
		limit = parsed
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return offset, limit, true
}
