package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
)

func TestRecipeService_Create(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	valid := func() models.RecipeRequest {
		return models.RecipeRequest{
			Ingredients: []models.RecipeIngredient{{IngredientID: env.egg.ID, Amount: 2}},
			Tags:        []int64{env.tag.ID},
			Image:       "img",
			Name:        "Omelette",
			Text:        "Whisk and fry",
			CookingTime: 5,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*models.RecipeRequest)
		wantErr error
	}{
		{"valid", func(*models.RecipeRequest) {}, nil},
		{"unknown tag", func(r *models.RecipeRequest) { r.Tags = []int64{99} }, ErrUnknownTag},
		{"duplicate tag", func(r *models.RecipeRequest) { r.Tags = []int64{env.tag.ID, env.tag.ID} }, ErrDuplicateTag},
		{"unknown ingredient", func(r *models.RecipeRequest) {
			r.Ingredients = []models.RecipeIngredient{{IngredientID: 99, Amount: 1}}
		}, ErrUnknownIngredient},
		{"duplicate ingredient", func(r *models.RecipeRequest) {
			r.Ingredients = append(r.Ingredients, models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 1})
		}, ErrDuplicateIngredient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			resp, err := env.recipes.Create(context.Background(), alice, req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if resp.Author.ID != alice || len(resp.Ingredients) != 1 || resp.Ingredients[0].Name != "Egg" {
					t.Errorf("Create() = %+v", resp)
				}
			}
		})
	}
}

func TestRecipeService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	tests := []struct {
		name string
		req  models.RecipeRequest
	}{
		{"no ingredients", models.RecipeRequest{Tags: []int64{env.tag.ID}, Image: "i", Name: "n", Text: "t", CookingTime: 1}},
		{"zero amount", models.RecipeRequest{
			Ingredients: []models.RecipeIngredient{{IngredientID: env.egg.ID, Amount: 0}},
			Tags:        []int64{env.tag.ID}, Image: "i", Name: "n", Text: "t", CookingTime: 1,
		}},
		{"zero cooking time", models.RecipeRequest{
			Ingredients: []models.RecipeIngredient{{IngredientID: env.egg.ID, Amount: 1}},
			Tags:        []int64{env.tag.ID}, Image: "i", Name: "n", Text: "t", CookingTime: 0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.recipes.Create(context.Background(), alice, tt.req)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}
}

func TestRecipeService_UpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	id := env.createRecipe(t, alice, "Pancakes", models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 2})

	if _, err := env.recipes.Update(ctx, bob, id, models.RecipeUpdateRequest{Name: "Stolen"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() by non-author error = %v", err)
	}

	resp, err := env.recipes.Update(ctx, alice, id, models.RecipeUpdateRequest{
		Name:        "Fluffy pancakes",
		Ingredients: []models.RecipeIngredient{{IngredientID: env.flour.ID, Amount: 300}},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if resp.Name != "Fluffy pancakes" || resp.Text != "Cook it" || resp.Ingredients[0].ID != env.flour.ID {
		t.Errorf("Update() = %+v", resp)
	}

	if err := env.recipes.Delete(ctx, bob, id); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() by non-author error = %v", err)
	}
	if err := env.recipes.Delete(ctx, alice, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := env.recipes.Get(ctx, alice, id); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
}

func TestRecipeService_FavoritesAndCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	id := env.createRecipe(t, alice, "Pancakes", models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 2})

	if _, err := env.recipes.AddFavorite(ctx, alice, id); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if _, err := env.recipes.AddFavorite(ctx, alice, id); !errors.Is(err, ErrAlreadyFavorited) {
		t.Errorf("duplicate AddFavorite() error = %v", err)
	}
	if _, err := env.recipes.AddToCart(ctx, alice, id); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if _, err := env.recipes.AddToCart(ctx, alice, id); !errors.Is(err, ErrAlreadyInCart) {
		t.Errorf("duplicate AddToCart() error = %v", err)
	}

	resp, _ := env.recipes.Get(ctx, alice, id)
	if !resp.IsFavorited || !resp.IsInShoppingCart {
		t.Errorf("flags = %v/%v, want true/true", resp.IsFavorited, resp.IsInShoppingCart)
	}
	anon, _ := env.recipes.Get(ctx, 0, id)
	if anon.IsFavorited || anon.IsInShoppingCart {
		t.Error("anonymous viewer sees favorite/cart flags")
	}

	if err := env.recipes.RemoveFavorite(ctx, alice, id); err != nil {
		t.Fatalf("RemoveFavorite() error = %v", err)
	}
	if err := env.recipes.RemoveFavorite(ctx, alice, id); !errors.Is(err, ErrNotFavorited) {
		t.Errorf("second RemoveFavorite() error = %v", err)
	}
	if err := env.recipes.RemoveFromCart(ctx, alice, id); err != nil {
		t.Fatalf("RemoveFromCart() error = %v", err)
	}
	if err := env.recipes.RemoveFromCart(ctx, alice, id); !errors.Is(err, ErrNotInCart) {
		t.Errorf("second RemoveFromCart() error = %v", err)
	}
	if _, err := env.recipes.AddToCart(ctx, alice, 999); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("AddToCart() missing recipe error = %v", err)
	}
}

func TestRecipeService_ShoppingList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	first := env.createRecipe(t, alice, "Boiled eggs",
		models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 2})
	second := env.createRecipe(t, alice, "Pancakes",
		models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 3},
		models.RecipeIngredient{IngredientID: env.flour.ID, Amount: 200})

	empty, err := env.recipes.ShoppingList(ctx, bob)
	if err != nil {
		t.Fatalf("ShoppingList() error = %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("empty cart produced %d rows", empty.Len())
	}

	for _, id := range []int64{first, second} {
		if _, err := env.recipes.AddToCart(ctx, bob, id); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
	}

	list, err := env.recipes.ShoppingList(ctx, bob)
	if err != nil {
		t.Fatalf("ShoppingList() error = %v", err)
	}
	want := []string{"Egg (pcs) - 5\n", "Flour (g) - 200\n"}
	if got := list.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestRecipeService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	first := env.createRecipe(t, alice, "One", models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 1})
	env.createRecipe(t, alice, "Two", models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 1})
	_, _ = env.recipes.AddFavorite(ctx, alice, first)

	got, total, err := env.recipes.List(ctx, alice, models.RecipeFilter{FavoritedBy: alice}, models.PageRequest{Page: 1, Limit: 6})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || got[0].ID != first || !got[0].IsFavorited {
		t.Errorf("List() = %+v (total %d)", got, total)
	}
}
