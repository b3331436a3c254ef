package handlers

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/shopping"
)

// RecipeService is the recipe service used by RecipeHandler
type RecipeService interface {
	List(ctx context.Context, viewerID int64, filter models.RecipeFilter, page models.PageRequest) ([]models.RecipeResponse, int, error)
	Get(ctx context.Context, viewerID, id int64) (*models.RecipeResponse, error)
	Create(ctx context.Context, authorID int64, req models.RecipeRequest) (*models.RecipeResponse, error)
	Update(ctx context.Context, userID, id int64, req models.RecipeUpdateRequest) (*models.RecipeResponse, error)
	Delete(ctx context.Context, userID, id int64) error
	AddFavorite(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error)
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error
	AddToCart(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error)
	RemoveFromCart(ctx context.Context, userID, recipeID int64) error
	ShoppingList(ctx context.Context, userID int64) (*shopping.List, error)
}

// RecipeHandler handles recipe, favorite and shopping cart endpoints
type RecipeHandler struct {
	service          RecipeService
	paginator        Paginator
	shoppingFilename string
	logger           *slog.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(service RecipeService, paginator Paginator, shoppingFilename string, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		service:          service,
		paginator:        paginator,
		shoppingFilename: shoppingFilename,
		logger:           logger,
	}
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := auth.UserID(r.Context())
	page := h.paginator.Request(r)

	recipes, total, err := h.service.List(r.Context(), viewerID, recipeFilter(r, viewerID), page)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, NewPage(r, page, recipes, total), h.logger)
}

// recipeFilter reads author, tags, is_favorited and is_in_shopping_cart.
// The favorite and cart flags only apply to authenticated viewers.
func recipeFilter(r *http.Request, viewerID int64) models.RecipeFilter {
	q := r.URL.Query()

	var filter models.RecipeFilter
	if author, err := strconv.ParseInt(q.Get("author"), 10, 64); err == nil && author > 0 {
		filter.AuthorID = author
	}
	filter.TagSlugs = q["tags"]

	if viewerID == 0 {
		return filter
	}

	switch q.Get("is_favorited") {
	case "1", "true":
		filter.FavoritedBy = viewerID
	case "0", "false":
		filter.ExcludeFavorite = viewerID
	}
	switch q.Get("is_in_shopping_cart") {
	case "1", "true":
		filter.InCartOf = viewerID
	case "0", "false":
		filter.ExcludeCart = viewerID
	}
	return filter
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RecipeRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	recipe, err := h.service.Create(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusCreated, recipe, h.logger)
}

// Get handles GET /api/recipes/{recipeID}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipeID", h.logger)
	if !ok {
		return
	}

	recipe, err := h.service.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, recipe, h.logger)
}

// Update handles PATCH /api/recipes/{recipeID}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipeID", h.logger)
	if !ok {
		return
	}

	var req models.RecipeUpdateRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	recipe, err := h.service.Update(r.Context(), auth.UserID(r.Context()), id, req)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, recipe, h.logger)
}

// Delete handles DELETE /api/recipes/{recipeID}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipeID", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite handles POST /api/recipes/{recipeID}/favorite
func (h *RecipeHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, h.service.AddFavorite)
}

// RemoveFavorite handles DELETE /api/recipes/{recipeID}/favorite
func (h *RecipeHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, h.service.RemoveFavorite)
}

// AddToCart handles POST /api/recipes/{recipeID}/shopping_cart
func (h *RecipeHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, h.service.AddToCart)
}

// RemoveFromCart handles DELETE /api/recipes/{recipeID}/shopping_cart
func (h *RecipeHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, h.service.RemoveFromCart)
}

func (h *RecipeHandler) addRelation(w http.ResponseWriter, r *http.Request, add func(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error)) {
	id, ok := pathID(w, r, "recipeID", h.logger)
	if !ok {
		return
	}

	short, err := add(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, short, h.logger)
}

func (h *RecipeHandler) removeRelation(w http.ResponseWriter, r *http.Request, remove func(ctx context.Context, userID, recipeID int64) error) {
	id, ok := pathID(w, r, "recipeID", h.logger)
	if !ok {
		return
	}

	if err := remove(r.Context(), auth.UserID(r.Context()), id); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart.
// The body is one "{name} ({unit}) - {total}" line per merged ingredient.
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	list, err := h.service.ShoppingList(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	metrics.ShoppingListRows.Observe(float64(list.Len()))

	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": h.shoppingFilename}))
	w.WriteHeader(http.StatusOK)

	if _, err := list.WriteTo(w); err != nil {
		h.logger.Error("failed to write shopping list", "user_id", userID, "error", err)
	}
}
