package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qnahub/backend/internal/domain/answers"
	"github.com/qnahub/backend/internal/domain/questions"
)

// answerResponse is the wire shape of an answer.
type answerResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Content    string `json:"content"`
	AuthorID   string `json:"author_id"`
	TotalVotes int    `json:"total_votes"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// questionAndAnswerResponse is the joined wire shape.
type questionAndAnswerResponse struct {
	Question representativeResponse `json:"question"`
	Answer   answerResponse         `json:"answer"`
}

func toAnswerResponse(a answers.Answer) answerResponse {
	return answerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
		AuthorID:   a.AuthorID,
		TotalVotes: a.TotalVotes,
		CreatedAt:  a.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:  a.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toPairResponse(p answers.QuestionAndAnswer) questionAndAnswerResponse {
	return questionAndAnswerResponse{
		Question: toRepresentativeResponse(p.Question),
		Answer:   toAnswerResponse(p.Answer),
	}
}

func registerAnswerRoutes(r chi.Router, logger *slog.Logger, service answers.Service) {
	r.Route("/v1/answers", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			handleAnswerCreate(w, req, logger, service)
		})
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			handleAnsweredList(w, req, logger, service)
		})
		r.Get("/by-question/{id}", func(w http.ResponseWriter, req *http.Request) {
			handleAnswerByQuestion(w, req, logger, service)
		})
	})
}

func handleAnswerCreate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service answers.Service) {
	var payload struct {
		QuestionID string `json:"question_id"`
		Content    string `json:"content"`
		AuthorID   string `json:"author_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	answer, err := service.Create(answers.CreateInput{
		QuestionID: payload.QuestionID,
		Content:    payload.Content,
		AuthorID:   payload.AuthorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, questions.ErrNotFound):
			respondError(w, http.StatusNotFound, "question not found")
		case errors.Is(err, answers.ErrAlreadyAnswered):
			respondError(w, http.StatusConflict, "question already has an answer")
		case errors.Is(err, answers.ErrNotImplemented), errors.Is(err, questions.ErrNotImplemented):
			respondError(w, http.StatusNotImplemented, "create answer not yet implemented")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, toAnswerResponse(answer))
}

func handleAnswerByQuestion(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service answers.Service) {
	questionID := chi.URLParam(r, "id")

	pair, err := service.GetWithQuestion(questionID)
	if err != nil {
		switch {
		case errors.Is(err, answers.ErrNotFound):
			respondError(w, http.StatusNotFound, "no answer for this question")
		case errors.Is(err, answers.ErrNotImplemented):
			respondError(w, http.StatusNotImplemented, "get answer not yet implemented")
		default:
			logger.Error("get answer by question failed", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(w, http.StatusOK, toPairResponse(pair))
}

func handleAnsweredList(w http.ResponseWriter, r *http.Request, logger *slog.Logger, service answers.Service) {
	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	pairs, err := service.ListAnswered(offset, limit)
	if err != nil {
		if errors.Is(err, answers.ErrNotImplemented) {
			respondError(w, http.StatusNotImplemented, "list answers not yet implemented")
			return
		}
		logger.Error("list answered questions failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data := make([]questionAndAnswerResponse, 0, len(pairs))
	for _, p := range pairs {
		data = append(data, toPairResponse(p))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"count": len(data),
	})
}
