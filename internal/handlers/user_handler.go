package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// UserService is the account and subscription service used by UserHandler
type UserService interface {
	Register(ctx context.Context, req models.CreateUserRequest) (*models.CreatedUserResponse, error)
	Get(ctx context.Context, viewerID, id int64) (*models.UserResponse, error)
	List(ctx context.Context, viewerID int64, page models.PageRequest) ([]models.UserResponse, int, error)
	SetPassword(ctx context.Context, userID int64, req models.SetPasswordRequest) error
	Delete(ctx context.Context, userID int64, req models.DeleteAccountRequest) error
	Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*models.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID int64) error
	Subscriptions(ctx context.Context, userID int64, page models.PageRequest, recipesLimit int) ([]models.SubscriptionResponse, int, error)
}

// UserHandler handles user and subscription endpoints
type UserHandler struct {
	service   UserService
	paginator Paginator
	logger    *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService, paginator Paginator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		paginator: paginator,
		logger:    logger,
	}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := h.paginator.Request(r)

	users, total, err := h.service.List(r.Context(), auth.UserID(r.Context()), page)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, NewPage(r, page, users, total), h.logger)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	WriteJSON(w, http.StatusCreated, user, h.logger)
}

// Get handles GET /api/users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID", h.logger)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, user, h.logger)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	user, err := h.service.Get(r.Context(), userID, userID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, user, h.logger)
}

// DeleteMe handles DELETE /api/users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAccountRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.service.Delete(r.Context(), userID, req); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// SetPassword handles POST /api/users/set_password
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.SetPasswordRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.service.SetPassword(r.Context(), auth.UserID(r.Context()), req); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe handles POST /api/users/{userID}/subscribe
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, ok := pathID(w, r, "userID", h.logger)
	if !ok {
		return
	}

	sub, err := h.service.Subscribe(r.Context(), auth.UserID(r.Context()), authorID, queryInt(r, "recipes_limit", 0))
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, sub, h.logger)
}

// Unsubscribe handles DELETE /api/users/{userID}/subscribe
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, ok := pathID(w, r, "userID", h.logger)
	if !ok {
		return
	}

	if err := h.service.Unsubscribe(r.Context(), auth.UserID(r.Context()), authorID); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions
func (h *UserHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	page := h.paginator.Request(r)

	subs, total, err := h.service.Subscriptions(r.Context(), auth.UserID(r.Context()), page, queryInt(r, "recipes_limit", 0))
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, NewPage(r, page, subs, total), h.logger)
}
