package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// CatalogService is the read-only tag and ingredient service
type CatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
}

// CatalogHandler serves tags and ingredients
type CatalogHandler struct {
	service CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListTags handles GET /api/tags
func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	WriteJSON(w, http.StatusOK, tags, h.logger)
}

// GetTag handles GET /api/tags/{tagID}
func (h *CatalogHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tagID", h.logger)
	if !ok {
		return
	}

	tag, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, tag, h.logger)
}

// ListIngredients handles GET /api/ingredients?name=
func (h *CatalogHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	WriteJSON(w, http.StatusOK, ingredients, h.logger)
}

// GetIngredient handles GET /api/ingredients/{ingredientID}
func (h *CatalogHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ingredientID", h.logger)
	if !ok {
		return
	}

	ingredient, err := h.service.GetIngredient(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, ingredient, h.logger)
}
