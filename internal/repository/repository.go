package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrRecipeNotFound     = fmt.Errorf("recipe %w", ErrNotFound)
	ErrTagNotFound        = fmt.Errorf("tag %w", ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("ingredient %w", ErrNotFound)

	ErrEmailTaken    = fmt.Errorf("email %w", ErrAlreadyExists)
	ErrUsernameTaken = fmt.Errorf("username %w", ErrAlreadyExists)
	ErrSlugTaken     = fmt.Errorf("tag slug %w", ErrAlreadyExists)
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, int, error)
	UpdatePassword(ctx context.Context, id int64, hash []byte) error
	DeleteUser(ctx context.Context, id int64) error
}

// SubscriptionRepository defines the interface for author subscriptions
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, subscriberID, authorID int64) error
	Unsubscribe(ctx context.Context, subscriberID, authorID int64) error
	IsSubscribed(ctx context.Context, subscriberID, authorID int64) (bool, error)
	ListSubscribedAuthors(ctx context.Context, subscriberID int64, offset, limit int) ([]models.User, int, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

// IngredientRepository defines the interface for ingredient catalog access
type IngredientRepository interface {
	CreateIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
	// ListIngredients returns ingredients whose name starts with prefix (case-insensitive).
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
}

// RecipeRepository defines the interface for recipe data access
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id int64) error
	// ListRecipes returns matching recipes newest first together with the total match count.
	ListRecipes(ctx context.Context, filter models.RecipeFilter, offset, limit int) ([]models.Recipe, int, error)
}

// FavoriteRepository defines the interface for favorites
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID, recipeID int64) error
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error
	IsFavorited(ctx context.Context, userID, recipeID int64) (bool, error)
}

// CartRepository defines the interface for shopping cart entries
type CartRepository interface {
	AddToCart(ctx context.Context, userID, recipeID int64) error
	RemoveFromCart(ctx context.Context, userID, recipeID int64) error
	IsInCart(ctx context.Context, userID, recipeID int64) (bool, error)
	// ListCart returns a user's cart entries in the order they were added.
	ListCart(ctx context.Context, userID int64) ([]models.CartEntry, error)
}

// Store groups every repository
type Store interface {
	UserRepository
	SubscriptionRepository
	TagRepository
	IngredientRepository
	RecipeRepository
	FavoriteRepository
	CartRepository
}
