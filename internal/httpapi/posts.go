package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qnahub/backend/internal/domain/posts"
)

// postResponse is the wire shape of a community post.
type postResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	Likes     int    `json:"likes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toPostResponse(p posts.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: p.UpdatedAt.UTC().Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func registerPostRoutes(r chi.Router, logger *slog.Logger, service posts.Service) {
	r.Route("/v1/community/posts", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			handlePostList(w, req, logger, service)
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			handlePostCreate(w, req, logger, service)
		})
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlePostGet(w, req, logger, service)
		})
		r.Patch("/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlePostUpdate(w, req, logger, service)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlePostDelete(w, req, logger, service)
		})
	})
}

func handlePostList(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service posts.Service) {
	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	results, err := service.List(offset, limit)
	if err != nil {
		if errors.Is(err, posts.ErrNotImplemented) {
			respondError(w, http.StatusNotImplemented, "list posts not yet implemented")
			return
		}
		logger.Error("list posts failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data := make([]postResponse, 0, len(results))
	for _, p := range results {
		data = append(data, toPostResponse(p))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"count": len(data),
	})
}

func handlePostCreate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service posts.Service) {
	var payload struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		AuthorID string `json:"author_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	post, err := service.Create(posts.CreateInput{
		Title:    payload.Title,
		Content:  payload.Content,
		AuthorID: payload.AuthorID,
	})
	if err != nil {
		if errors.Is(err, posts.ErrNotImplemented) {
			respondError(w, http.StatusNotImplemented, "create post not yet implemented")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, toPostResponse(post))
}

func handlePostGet(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service posts.Service) {
	id := chi.URLParam(r, "id")

	post, err := service.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, posts.ErrNotFound):
			respondError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, posts.ErrNotImplemented):
			respondError(w, http.StatusNotImplemented, "get post not yet implemented")
		default:
			logger.Error("get post failed", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(w, http.StatusOK, toPostResponse(post))
}

func handlePostUpdate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service posts.Service) {
	id := chi.URLParam(r, "id")

	var payload struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	post, err := service.Update(id, posts.UpdateInput{
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, posts.ErrNotFound):
			respondError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, posts.ErrNotImplemented):
			respondError(w, http.StatusNotImplemented, "update post not yet implemented")
		default:
			logger.Error("update post failed", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(w, http.StatusOK, toPostResponse(post))
}

func handlePostDelete(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service posts.Service) {
	id := chi.URLParam(r, "id")

	if err := service.Delete(id); err != nil {
		switch {
		case errors.Is(err, posts.ErrNotFound):
			respondError(w, http.StatusNotFound, "post not found or already deleted")
		case errors.Is(err, posts.ErrNotImplemented):
			respondError(w, http.StatusNotImplemented, "delete post not yet implemented")
		default:
			logger.Error("delete post failed", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
