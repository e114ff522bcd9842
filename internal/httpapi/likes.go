package httpapi

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qnahub/backend/internal/domain"
	"github.com/qnahub/backend/internal/domain/answers"
	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/domain/votes"
)

// likeResponse reports the result of a like or unlike.
type likeResponse struct {
	TargetID   string `json:"target_id"`
	Kind       string `json:"kind"`
	TotalVotes int    `json:"total_votes"`
	Message    string `json:"message"`
	UserLiked  bool   `json:"user_liked"`
}

// voteStatusResponse reports a target's vote count plus the caller's state.
type voteStatusResponse struct {
	TargetID   string `json:"target_id"`
	Kind       string `json:"kind"`
	TotalVotes int    `json:"total_votes"`
	Content    string `json:"content"`
	UserLiked  bool   `json:"user_liked"`
}

func registerLikeRoutes(r chi.Router, logger *slog.Logger, services domain.Container, sessions *sessionManager) {
	h := &likeHandler{logger: logger, services: services, sessions: sessions}

	r.Route("/v1/likes", func(r chi.Router) {
		r.Put("/questions/{id}/like", h.likeQuestion)
		r.Put("/questions/{id}/unlike", h.unlikeQuestion)
		r.Get("/questions/{id}/votes", h.questionVotes)

		r.Put("/answers/{id}/like", h.likeAnswer)
		r.Put("/answers/{id}/unlike", h.unlikeAnswer)
		r.Get("/answers/{id}/votes", h.answerVotes)
	})
}

type likeHandler struct {
	logger   *slog.Logger
	services domain.Container
	sessions *sessionManager
}

func (h *likeHandler) likeQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.services.Questions.GetRepresentative(id); err != nil {
		h.respondTargetError(w, err, "question")
		return
	}

	sessionID := h.sessions.getOrCreate(w, r)
	total, err := h.services.Votes.Like(sessionID, votes.KindQuestion, id, clientIP(r))
	if err != nil {
		h.respondVoteError(w, err, "question")
		return
	}

	respondJSON(w, http.StatusOK, likeResponse{
		TargetID:   id,
		Kind:       string(votes.KindQuestion),
		TotalVotes: total,
		Message:    "like added",
		UserLiked:  true,
	})
}

func (h *likeHandler) unlikeQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.services.Questions.GetRepresentative(id); err != nil {
		h.respondTargetError(w, err, "question")
		return
	}

	sessionID := h.sessions.getOrCreate(w, r)
	total, err := h.services.Votes.Unlike(sessionID, votes.KindQuestion, id)
	if err != nil {
		h.respondVoteError(w, err, "question")
		return
	}

	respondJSON(w, http.StatusOK, likeResponse{
		TargetID:   id,
		Kind:       string(votes.KindQuestion),
		TotalVotes: total,
		Message:    "like removed",
		UserLiked:  false,
	})
}

func (h *likeHandler) questionVotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	question, err := h.services.Questions.GetRepresentative(id)
	if err != nil {
		h.respondTargetError(w, err, "question")
		return
	}

	sessionID := h.sessions.getOrCreate(w, r)
	liked, err := h.services.Votes.Liked(sessionID, votes.KindQuestion, id)
	if err != nil {
		// Status lookup failures degrade to "not liked" rather than erroring.
		h.logger.Warn("vote status lookup failed", "err", err)
		liked = false
	}

	respondJSON(w, http.StatusOK, voteStatusResponse{
		TargetID:   question.ID,
		Kind:       string(votes.KindQuestion),
		TotalVotes: question.TotalVotes,
		Content:    question.Title,
		UserLiked:  liked,
	})
}

func (h *likeHandler) likeAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.services.Answers.Get(id); err != nil {
		h.respondTargetError(w, err, "answer")
		return
	}

	sessionID := h.sessions.getOrCreate(w, r)
	total, err := h.services.Votes.Like(sessionID, votes.KindAnswer, id, clientIP(r))
	if err != nil {
		h.respondVoteError(w, err, "answer")
		return
	}

	respondJSON(w, http.StatusOK, likeResponse{
		TargetID:   id,
		Kind:       string(votes.KindAnswer),
		TotalVotes: total,
		Message:    "like added",
		UserLiked:  true,
	})
}

func (h *likeHandler) unlikeAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.services.Answers.Get(id); err != nil {
		h.respondTargetError(w, err, "answer")
		return
	}

	sessionID := h.sessions.getOrCreate(w, r)
	total, err := h.services.Votes.Unlike(sessionID, votes.KindAnswer, id)
	if err != nil {
		h.respondVoteError(w, err, "answer")
		return
	}

	respondJSON(w, http.StatusOK, likeResponse{
		TargetID:   id,
		Kind:       string(votes.KindAnswer),
		TotalVotes: total,
		Message:    "like removed",
		UserLiked:  false,
	})
}

func (h *likeHandler) answerVotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	answer, err := h.services.Answers.Get(id)
	if err != nil {
		h.respondTargetError(w, err, "answer")
		return
	}

	sessionID := h.sessions.getOrCreate(w, r)
	liked, err := h.services.Votes.Liked(sessionID, votes.KindAnswer, id)
	if err != nil {
		h.logger.Warn("vote status lookup failed", "err", err)
		liked = false
	}

	respondJSON(w, http.StatusOK, voteStatusResponse{
		TargetID:   answer.ID,
		Kind:       string(votes.KindAnswer),
		TotalVotes: answer.TotalVotes,
		Content:    truncate(answer.Content, 100),
		UserLiked:  liked,
	})
}

func (h *likeHandler) respondTargetError(w http.ResponseWriter, err error, kind string) {
	switch {
	case errors.Is(err, questions.ErrNotFound), errors.Is(err, answers.ErrNotFound):
		respondError(w, http.StatusNotFound, kind+" not found")
	case errors.Is(err, questions.ErrNotImplemented), errors.Is(err, answers.ErrNotImplemented):
		respondError(w, http.StatusNotImplemented, "votes not yet implemented")
	default:
		h.logger.Error("vote target lookup failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *likeHandler) respondVoteError(w http.ResponseWriter, err error, kind string) {
	switch {
	case errors.Is(err, votes.ErrAlreadyLiked):
		respondError(w, http.StatusConflict, "already liked")
	case errors.Is(err, votes.ErrNotLiked):
		respondError(w, http.StatusConflict, "not liked or already removed")
	case errors.Is(err, votes.ErrNotImplemented):
		respondError(w, http.StatusNotImplemented, "votes not yet implemented")
	default:
		h.logger.Error("vote operation failed", "kind", kind, "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
