package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
)

// DefaultTags are created on startup when missing
var DefaultTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

// SeedTags creates tags whose slug is not taken yet and returns how many were created.
// Nothing is inserted when any tag fails validation.
func SeedTags(ctx context.Context, repo repository.TagRepository, tags []models.Tag) (int, error) {
	for _, tag := range tags {
		if err := validation.Struct(&tag); err != nil {
			return 0, fmt.Errorf("invalid tag %q: %w", tag.Slug, err)
		}
	}

	created := 0
	for _, tag := range tags {
		t := tag
		err := repo.CreateTag(ctx, &t)
		if errors.Is(err, repository.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to create tag %q: %w", tag.Slug, err)
		}
		created++
	}
	return created, nil
}

// SeedIngredients loads sources and inserts ingredients not yet in the catalog
func SeedIngredients(ctx context.Context, loader *Loader, repo repository.IngredientRepository, sources []string) (int, error) {
	ingredients, err := loader.Load(ctx, sources)
	if err != nil {
		return 0, err
	}
	return repo.CreateIngredients(ctx, ingredients)
}
