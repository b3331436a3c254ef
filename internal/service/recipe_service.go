package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/shopping"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
)

// RecipeService handles recipe business logic, favorites and the shopping cart
type RecipeService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(store repository.Store, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:  store,
		logger: logger,
	}
}

// List returns a page of recipes matching filter as seen by viewerID
func (s *RecipeService) List(ctx context.Context, viewerID int64, filter models.RecipeFilter, page models.PageRequest) ([]models.RecipeResponse, int, error) {
	recipes, total, err := s.store.ListRecipes(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := s.recipeResponse(ctx, viewerID, &recipes[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// Get returns a single recipe
func (s *RecipeService) Get(ctx context.Context, viewerID, id int64) (*models.RecipeResponse, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recipeResponse(ctx, viewerID, recipe)
}

// Create stores a new recipe authored by authorID
func (s *RecipeService) Create(ctx context.Context, authorID int64, req models.RecipeRequest) (*models.RecipeResponse, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, req.Tags); err != nil {
		return nil, err
	}
	if err := s.checkIngredients(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	}
	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.logger.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.recipeResponse(ctx, authorID, recipe)
}

// Update applies a partial update; only the author may change a recipe
func (s *RecipeService) Update(ctx context.Context, userID, id int64, req models.RecipeUpdateRequest) (*models.RecipeResponse, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.checkTags(ctx, req.Tags); err != nil {
			return nil, err
		}
		recipe.TagIDs = req.Tags
	}
	if req.Ingredients != nil {
		if err := s.checkIngredients(ctx, req.Ingredients); err != nil {
			return nil, err
		}
		recipe.Ingredients = req.Ingredients
	}
	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Image != "" {
		recipe.Image = req.Image
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != 0 {
		recipe.CookingTime = req.CookingTime
	}

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return s.recipeResponse(ctx, userID, recipe)
}

// Delete removes a recipe; only the author may delete it
func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrForbidden
	}
	return s.store.DeleteRecipe(ctx, id)
}

// AddFavorite adds a recipe to the user's favorites
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	short := shortRecipe(*recipe)
	return &short, nil
}

// RemoveFavorite removes a recipe from the user's favorites
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.store.GetRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := s.store.RemoveFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFavorited
		}
		return err
	}
	return nil
}

// AddToCart adds a recipe to the user's shopping cart
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddToCart(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	short := shortRecipe(*recipe)
	return &short, nil
}

// RemoveFromCart removes a recipe from the user's shopping cart
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.store.GetRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := s.store.RemoveFromCart(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotInCart
		}
		return err
	}
	return nil
}

// ShoppingList merges the ingredients of every recipe in the user's cart,
// walking cart entries oldest first and each recipe's ingredients in order
func (s *RecipeService) ShoppingList(ctx context.Context, userID int64) (*shopping.List, error) {
	entries, err := s.store.ListCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	catalog := make(map[int64]*models.Ingredient)
	list := &shopping.List{}

	for _, entry := range entries {
		recipe, err := s.store.GetRecipe(ctx, entry.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe %d: %w", entry.RecipeID, err)
		}

		for _, ri := range recipe.Ingredients {
			ing, ok := catalog[ri.IngredientID]
			if !ok {
				ing, err = s.store.GetIngredient(ctx, ri.IngredientID)
				if err != nil {
					return nil, fmt.Errorf("failed to load ingredient %d: %w", ri.IngredientID, err)
				}
				catalog[ri.IngredientID] = ing
			}

			list.Add(shopping.IngredientLine{
				Name:   ing.Name,
				Unit:   ing.MeasurementUnit,
				Amount: uint(ri.Amount),
			})
		}
	}

	s.logger.Debug("shopping list built", "user_id", userID, "recipes", len(entries), "rows", list.Len())
	return list, nil
}

func (s *RecipeService) checkTags(ctx context.Context, ids []int64) error {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return ErrDuplicateTag
		}
		seen[id] = true

		if _, err := s.store.GetTag(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %d", ErrUnknownTag, id)
			}
			return err
		}
	}
	return nil
}

func (s *RecipeService) checkIngredients(ctx context.Context, items []models.RecipeIngredient) error {
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if seen[item.IngredientID] {
			return ErrDuplicateIngredient
		}
		seen[item.IngredientID] = true

		if _, err := s.store.GetIngredient(ctx, item.IngredientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %d", ErrUnknownIngredient, item.IngredientID)
			}
			return err
		}
	}
	return nil
}

func (s *RecipeService) recipeResponse(ctx context.Context, viewerID int64, recipe *models.Recipe) (*models.RecipeResponse, error) {
	author, err := s.store.GetUser(ctx, recipe.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	authorResp, err := buildUserResponse(ctx, s.store, viewerID, author)
	if err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, len(recipe.TagIDs))
	for _, id := range recipe.TagIDs {
		tag, err := s.store.GetTag(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load tag %d: %w", id, err)
		}
		tags = append(tags, *tag)
	}

	ingredients := make([]models.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, ri := range recipe.Ingredients {
		ing, err := s.store.GetIngredient(ctx, ri.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load ingredient %d: %w", ri.IngredientID, err)
		}
		ingredients = append(ingredients, models.RecipeIngredientResponse{
			ID:              ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	resp := &models.RecipeResponse{
		ID:          recipe.ID,
		Tags:        tags,
		Author:      authorResp,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}

	if viewerID != 0 {
		if resp.IsFavorited, err = s.store.IsFavorited(ctx, viewerID, recipe.ID); err != nil {
			return nil, err
		}
		if resp.IsInShoppingCart, err = s.store.IsInCart(ctx, viewerID, recipe.ID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
