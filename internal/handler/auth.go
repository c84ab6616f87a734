package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pavelanni/wordgen/internal/auth"
	"github.com/pavelanni/wordgen/internal/model"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// requireAuth is middleware that checks for a valid bearer token.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := auth.ParseToken(strings.TrimSpace(token), h.config.JWTSecret)
		if err != nil {
			slog.Debug("rejected token", "error", err)
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Token verification failed")
			return
		}

		ctx := model.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || req.JobTitle == "" {
		writeError(w, http.StatusBadRequest, "email, password and job_title are required")
		return
	}
	if len(req.Password) < MinPasswordLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
		return
	}

	existing, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		slog.Error("failed to get user", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := h.store.CreateUser(model.User{
		Email:        req.Email,
		PasswordHash: hash,
		JobTitle:     req.JobTitle,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User created successfully"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		slog.Error("failed to get user", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	token, err := auth.GenerateToken(model.CurrentUser{
		UserID:   user.ID,
		Email:    user.Email,
		JobTitle: user.JobTitle,
	}, h.config.JWTSecret, h.config.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
