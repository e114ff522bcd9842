package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qnahub/backend/internal/domain/questions"
)

// rawQuestionResponse is the wire shape of a submitted raw question.
type rawQuestionResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// representativeResponse is the wire shape of a representative question.
type representativeResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	RelatedQuestionIDs []string `json:"related_question_ids,omitempty"`
	TotalVotes         int      `json:"total_votes"`
	Status             string   `json:"status"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func toRawQuestionResponse(q questions.RawQuestion) rawQuestionResponse {
	return rawQuestionResponse{
		ID:        q.ID,
		Content:   q.Content,
		AuthorID:  q.AuthorID,
		Status:    string(q.Status),
		CreatedAt: q.CreatedAt.UTC().Format(timeFormat),
	}
}

func toRepresentativeResponse(q questions.Representative) representativeResponse {
	return representativeResponse{
		ID:                 q.ID,
		Title:              q.Title,
		RelatedQuestionIDs: q.RelatedQuestionIDs,
		TotalVotes:         q.TotalVotes,
		Status:             string(q.Status),
		CreatedAt:          q.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:          q.UpdatedAt.UTC().Format(timeFormat),
	}
}

func registerQuestionRoutes(r chi.Router, logger *slog.Logger, service questions.Service) {
	r.Route("/v1/questions", func(r chi.Router) {
		r.Post("/raw", func(w http.ResponseWriter, req *http.Request) {
			handleRawQuestionSubmit(w, req, logger, service)
		})
		r.Get("/representative", func(w http.ResponseWriter, req *http.Request) {
			handleRepresentativeList(w, req, logger, service)
		})
	})
}

func handleRawQuestionSubmit(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service questions.Service) {
	var payload struct {
		Content  string `json:"content"`
		AuthorID string `json:"author_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	saved, similar, err := service.SubmitRaw(r.Context(), questions.SubmitInput{
		Content:  payload.Content,
		AuthorID: payload.AuthorID,
	})
	if err != nil {
		var rejection *questions.RejectionError
		switch {
		case errors.As(err, &rejection):
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "question rejected",
				"reason": rejection.Reason,
			})
		case errors.Is(err, questions.ErrNotImplemented):
			respondError(w, http.StatusNotImplemented, "submit question not yet implemented")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	resp := map[string]any{"question": toRawQuestionResponse(saved)}
	if similar != nil {
		resp["similar_question"] = toRepresentativeResponse(*similar)
	}
	respondJSON(w, http.StatusCreated, resp)
}

func handleRepresentativeList(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service questions.Service) {
	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	results, err := service.ListRepresentative(offset, limit)
	if err != nil {
		if errors.Is(err, questions.ErrNotImplemented) {
			respondError(w, http.StatusNotImplemented, "list questions not yet implemented")
			return
		}
		logger.Error("list representative questions failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data := make([]representativeResponse, 0, len(results))
	for _, q := range results {
		data = append(data, toRepresentativeResponse(q))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"count": len(data),
	})
}
