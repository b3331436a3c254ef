package service

import (
	"context"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
)

// CatalogService serves the read-only tag and ingredient catalogs
type CatalogService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(tags repository.TagRepository, ingredients repository.IngredientRepository) *CatalogService {
	return &CatalogService{
		tags:        tags,
		ingredients: ingredients,
	}
}

// ListTags returns all tags
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.ListTags(ctx)
}

// GetTag returns a tag by ID
func (s *CatalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	return s.tags.GetTag(ctx, id)
}

// ListIngredients returns ingredients, optionally those whose name starts with name
func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error) {
	return s.ingredients.ListIngredients(ctx, name)
}

// GetIngredient returns an ingredient by ID
func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	return s.ingredients.GetIngredient(ctx, id)
}
