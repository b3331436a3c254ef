package models

import "time"

// Recipe represents a stored recipe
type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Image       string
	Text        string
	CookingTime int
	TagIDs      []int64
	Ingredients []RecipeIngredient
	PubDate     time.Time
}

// RecipeIngredient is one ingredient of a recipe with its amount
type RecipeIngredient struct {
	IngredientID int64 `json:"id" validate:"required,min=1"`
	Amount       int   `json:"amount" validate:"required,min=1"`
}

// Favorite marks a recipe as favorited by a user
type Favorite struct {
	ID       int64
	UserID   int64
	RecipeID int64
}

// CartEntry marks a recipe as added to a user's shopping cart
type CartEntry struct {
	ID       int64
	UserID   int64
	RecipeID int64
}

// RecipeRequest is the create/update payload
type RecipeRequest struct {
	Ingredients []RecipeIngredient `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,dive,min=1"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"required,min=1"`
}

// RecipeUpdateRequest is the PATCH payload; omitted (zero) fields keep their stored value
type RecipeUpdateRequest struct {
	Ingredients []RecipeIngredient `json:"ingredients" validate:"omitempty,min=1,dive"`
	Tags        []int64            `json:"tags" validate:"omitempty,min=1,dive,min=1"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"omitempty,max=200"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time" validate:"omitempty,min=1"`
}

// RecipeIngredientResponse is an ingredient row inside a recipe response
type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe representation
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShort is the compact representation used by favorite, cart and subscription responses
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeFilter narrows a recipe listing. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID        int64
	TagSlugs        []string
	FavoritedBy     int64
	InCartOf        int64
	ExcludeFavorite int64
	ExcludeCart     int64
}
