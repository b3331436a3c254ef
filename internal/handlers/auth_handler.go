package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/middleware"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// AuthService is the subset of the auth service used by AuthHandler
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles token login and logout
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login handles POST /api/auth/token/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		h.logger.Info("login rejected", "email", req.Email, "error", err)
		WriteServiceError(w, err, h.logger)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	WriteJSON(w, http.StatusOK, models.TokenResponse{AuthToken: token}, h.logger)
}

// Logout handles POST /api/auth/token/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
