package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qnahub/backend/internal/auth"
	"github.com/qnahub/backend/internal/domain/users"
)

func registerAuthRoutes(r chi.Router, logger *slog.Logger, service users.Service) {
	r.Post("/v1/auth/register", func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}

		user, err := service.Register(users.RegisterInput{
			Email:    payload.Email,
			Name:     payload.Name,
			Password: payload.Password,
		})
		if err != nil {
			if errors.Is(err, users.ErrEmailExists) {
				respondError(w, http.StatusConflict, "email already in use")
				return
			}
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		token := auth.IssueToken()

		respondJSON(w, http.StatusCreated, map[string]any{
			"user":  userPayload(user),
			"token": tokenPayload(token),
		})
	})

	r.Post("/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}

		user, err := service.Authenticate(payload.Email, payload.Password)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrInvalidPassword) {
				respondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		token := auth.IssueToken()

		respondJSON(w, http.StatusOK, map[string]any{
			"message": "login successful",
			"user":    userPayload(user),
			"token":   tokenPayload(token),
		})
	})
}

func userPayload(user users.User) map[string]any {
	return map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}
}

func tokenPayload(token auth.Token) map[string]any {
	return map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_at":   token.ExpiresAt,
	}
}
