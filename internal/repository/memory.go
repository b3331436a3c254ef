package repository

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// InMemoryStore implements Store with in-memory storage.
// Uniqueness constraints and cascade deletes mirror a relational schema.
type InMemoryStore struct {
	mu sync.RWMutex

	users       map[int64]models.User
	tags        map[int64]models.Tag
	ingredients map[int64]models.Ingredient
	recipes     map[int64]models.Recipe

	// join tables kept in insertion order
	subscriptions []models.Subscription
	favorites     []models.Favorite
	cart          []models.CartEntry

	lastID map[string]int64
	now    func() time.Time
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:       make(map[int64]models.User),
		tags:        make(map[int64]models.Tag),
		ingredients: make(map[int64]models.Ingredient),
		recipes:     make(map[int64]models.Recipe),
		lastID:      make(map[string]int64),
		now:         time.Now,
	}
}

func (s *InMemoryStore) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

// paginate slices items by offset/limit; limit <= 0 means no limit
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// Users

// CreateUser stores a new user and assigns its ID
func (s *InMemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}

	user.ID = s.nextID("users")
	s.users[user.ID] = *user
	return nil
}

// GetUser returns a user by ID
func (s *InMemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// GetUserByEmail returns a user by email, compared case-insensitively
func (s *InMemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers returns users ordered by ID
func (s *InMemoryStore) ListUsers(_ context.Context, offset, limit int) ([]models.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(s.users))
	users := make([]models.User, 0, len(ids))
	for _, id := range paginate(ids, offset, limit) {
		users = append(users, s.users[id])
	}
	return users, len(ids), nil
}

// UpdatePassword replaces a user's password hash
func (s *InMemoryStore) UpdatePassword(_ context.Context, id int64, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = slices.Clone(hash)
	s.users[id] = u
	return nil
}

// DeleteUser removes a user together with their recipes, favorites, cart and subscriptions
func (s *InMemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)

	for rid, r := range s.recipes {
		if r.AuthorID == id {
			s.deleteRecipeLocked(rid)
		}
	}
	s.subscriptions = slices.DeleteFunc(s.subscriptions, func(sub models.Subscription) bool {
		return sub.SubscriberID == id || sub.AuthorID == id
	})
	s.favorites = slices.DeleteFunc(s.favorites, func(f models.Favorite) bool { return f.UserID == id })
	s.cart = slices.DeleteFunc(s.cart, func(c models.CartEntry) bool { return c.UserID == id })
	return nil
}

// Subscriptions

// Subscribe records that subscriberID follows authorID
func (s *InMemoryStore) Subscribe(_ context.Context, subscriberID, authorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[authorID]; !ok {
		return ErrUserNotFound
	}
	if s.subscriptionIndex(subscriberID, authorID) >= 0 {
		return ErrAlreadyExists
	}
	s.subscriptions = append(s.subscriptions, models.Subscription{
		ID:           s.nextID("subscriptions"),
		SubscriberID: subscriberID,
		AuthorID:     authorID,
	})
	return nil
}

// Unsubscribe removes a subscription
func (s *InMemoryStore) Unsubscribe(_ context.Context, subscriberID, authorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.subscriptionIndex(subscriberID, authorID)
	if i < 0 {
		return ErrNotFound
	}
	s.subscriptions = slices.Delete(s.subscriptions, i, i+1)
	return nil
}

// IsSubscribed reports whether subscriberID follows authorID
func (s *InMemoryStore) IsSubscribed(_ context.Context, subscriberID, authorID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.subscriptionIndex(subscriberID, authorID) >= 0, nil
}

// ListSubscribedAuthors returns the authors followed by subscriberID in subscription order
func (s *InMemoryStore) ListSubscribedAuthors(_ context.Context, subscriberID int64, offset, limit int) ([]models.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var authors []models.User
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID {
			authors = append(authors, s.users[sub.AuthorID])
		}
	}
	return slices.Clone(paginate(authors, offset, limit)), len(authors), nil
}

func (s *InMemoryStore) subscriptionIndex(subscriberID, authorID int64) int {
	return slices.IndexFunc(s.subscriptions, func(sub models.Subscription) bool {
		return sub.SubscriberID == subscriberID && sub.AuthorID == authorID
	})
}

// Tags

// CreateTag stores a new tag; slugs are unique
func (s *InMemoryStore) CreateTag(_ context.Context, tag *models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if t.Slug == tag.Slug {
			return ErrSlugTaken
		}
	}
	tag.ID = s.nextID("tags")
	s.tags[tag.ID] = *tag
	return nil
}

// GetTag returns a tag by ID
func (s *InMemoryStore) GetTag(_ context.Context, id int64) (*models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tags[id]
	if !ok {
		return nil, ErrTagNotFound
	}
	return &t, nil
}

// ListTags returns all tags ordered by ID
func (s *InMemoryStore) ListTags(_ context.Context) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]models.Tag, 0, len(s.tags))
	for _, id := range slices.Sorted(maps.Keys(s.tags)) {
		tags = append(tags, s.tags[id])
	}
	return tags, nil
}

// Ingredients

// CreateIngredients bulk-inserts catalog entries, skipping (name, unit) pairs already present.
// It returns how many were inserted.
func (s *InMemoryStore) CreateIngredients(_ context.Context, ingredients []models.Ingredient) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct{ name, unit string }
	existing := make(map[key]bool, len(s.ingredients))
	for _, ing := range s.ingredients {
		existing[key{ing.Name, ing.MeasurementUnit}] = true
	}

	inserted := 0
	for i := range ingredients {
		k := key{ingredients[i].Name, ingredients[i].MeasurementUnit}
		if existing[k] {
			continue
		}
		existing[k] = true
		ingredients[i].ID = s.nextID("ingredients")
		s.ingredients[ingredients[i].ID] = ingredients[i]
		inserted++
	}
	return inserted, nil
}

// GetIngredient returns an ingredient by ID
func (s *InMemoryStore) GetIngredient(_ context.Context, id int64) (*models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.ingredients[id]
	if !ok {
		return nil, ErrIngredientNotFound
	}
	return &ing, nil
}

// ListIngredients returns ingredients ordered by ID, optionally filtered by name prefix
func (s *InMemoryStore) ListIngredients(_ context.Context, prefix string) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	out := make([]models.Ingredient, 0)
	for _, id := range slices.Sorted(maps.Keys(s.ingredients)) {
		ing := s.ingredients[id]
		if prefix == "" || strings.HasPrefix(strings.ToLower(ing.Name), prefix) {
			out = append(out, ing)
		}
	}
	return out, nil
}

// Recipes

// CreateRecipe stores a new recipe and assigns its ID and publication date
func (s *InMemoryStore) CreateRecipe(_ context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[recipe.AuthorID]; !ok {
		return ErrUserNotFound
	}
	if err := s.checkRefsLocked(recipe); err != nil {
		return err
	}

	recipe.ID = s.nextID("recipes")
	recipe.PubDate = s.now().UTC()
	s.recipes[recipe.ID] = cloneRecipe(*recipe)
	return nil
}

// GetRecipe returns a recipe by ID
func (s *InMemoryStore) GetRecipe(_ context.Context, id int64) (*models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	r = cloneRecipe(r)
	return &r, nil
}

// UpdateRecipe replaces a stored recipe, keeping its author and publication date
func (s *InMemoryStore) UpdateRecipe(_ context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.recipes[recipe.ID]
	if !ok {
		return ErrRecipeNotFound
	}
	if err := s.checkRefsLocked(recipe); err != nil {
		return err
	}

	recipe.AuthorID = old.AuthorID
	recipe.PubDate = old.PubDate
	s.recipes[recipe.ID] = cloneRecipe(*recipe)
	return nil
}

// DeleteRecipe removes a recipe along with its favorites and cart entries
func (s *InMemoryStore) DeleteRecipe(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return ErrRecipeNotFound
	}
	s.deleteRecipeLocked(id)
	return nil
}

func (s *InMemoryStore) deleteRecipeLocked(id int64) {
	delete(s.recipes, id)
	s.favorites = slices.DeleteFunc(s.favorites, func(f models.Favorite) bool { return f.RecipeID == id })
	s.cart = slices.DeleteFunc(s.cart, func(c models.CartEntry) bool { return c.RecipeID == id })
}

// ListRecipes returns recipes matching filter, newest first
func (s *InMemoryStore) ListRecipes(_ context.Context, filter models.RecipeFilter, offset, limit int) ([]models.Recipe, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(s.recipes))
	slices.Reverse(ids)

	var matched []models.Recipe
	for _, id := range ids {
		r := s.recipes[id]
		if s.matchesLocked(r, filter) {
			matched = append(matched, r)
		}
	}

	page := paginate(matched, offset, limit)
	out := make([]models.Recipe, len(page))
	for i, r := range page {
		out[i] = cloneRecipe(r)
	}
	return out, len(matched), nil
}

func (s *InMemoryStore) matchesLocked(r models.Recipe, f models.RecipeFilter) bool {
	if f.AuthorID != 0 && r.AuthorID != f.AuthorID {
		return false
	}
	if f.FavoritedBy != 0 && s.favoriteIndex(f.FavoritedBy, r.ID) < 0 {
		return false
	}
	if f.ExcludeFavorite != 0 && s.favoriteIndex(f.ExcludeFavorite, r.ID) >= 0 {
		return false
	}
	if f.InCartOf != 0 && s.cartIndex(f.InCartOf, r.ID) < 0 {
		return false
	}
	if f.ExcludeCart != 0 && s.cartIndex(f.ExcludeCart, r.ID) >= 0 {
		return false
	}
	if len(f.TagSlugs) > 0 {
		for _, tagID := range r.TagIDs {
			if slices.Contains(f.TagSlugs, s.tags[tagID].Slug) {
				return true
			}
		}
		return false
	}
	return true
}

func (s *InMemoryStore) checkRefsLocked(r *models.Recipe) error {
	for _, tagID := range r.TagIDs {
		if _, ok := s.tags[tagID]; !ok {
			return ErrTagNotFound
		}
	}
	for _, ri := range r.Ingredients {
		if _, ok := s.ingredients[ri.IngredientID]; !ok {
			return ErrIngredientNotFound
		}
	}
	return nil
}

func cloneRecipe(r models.Recipe) models.Recipe {
	r.TagIDs = slices.Clone(r.TagIDs)
	r.Ingredients = slices.Clone(r.Ingredients)
	return r
}

// Favorites

// AddFavorite marks a recipe as a user's favorite
func (s *InMemoryStore) AddFavorite(_ context.Context, userID, recipeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return ErrRecipeNotFound
	}
	if s.favoriteIndex(userID, recipeID) >= 0 {
		return ErrAlreadyExists
	}
	s.favorites = append(s.favorites, models.Favorite{
		ID:       s.nextID("favorites"),
		UserID:   userID,
		RecipeID: recipeID,
	})
	return nil
}

// RemoveFavorite unmarks a favorite
func (s *InMemoryStore) RemoveFavorite(_ context.Context, userID, recipeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.favoriteIndex(userID, recipeID)
	if i < 0 {
		return ErrNotFound
	}
	s.favorites = slices.Delete(s.favorites, i, i+1)
	return nil
}

// IsFavorited reports whether the user favorited the recipe
func (s *InMemoryStore) IsFavorited(_ context.Context, userID, recipeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.favoriteIndex(userID, recipeID) >= 0, nil
}

func (s *InMemoryStore) favoriteIndex(userID, recipeID int64) int {
	return slices.IndexFunc(s.favorites, func(f models.Favorite) bool {
		return f.UserID == userID && f.RecipeID == recipeID
	})
}

// Cart

// AddToCart adds a recipe to the user's shopping cart
func (s *InMemoryStore) AddToCart(_ context.Context, userID, recipeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return ErrRecipeNotFound
	}
	if s.cartIndex(userID, recipeID) >= 0 {
		return ErrAlreadyExists
	}
	s.cart = append(s.cart, models.CartEntry{
		ID:       s.nextID("cart"),
		UserID:   userID,
		RecipeID: recipeID,
	})
	return nil
}

// RemoveFromCart removes a recipe from the user's shopping cart
func (s *InMemoryStore) RemoveFromCart(_ context.Context, userID, recipeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cartIndex(userID, recipeID)
	if i < 0 {
		return ErrNotFound
	}
	s.cart = slices.Delete(s.cart, i, i+1)
	return nil
}

// IsInCart reports whether the recipe is in the user's cart
func (s *InMemoryStore) IsInCart(_ context.Context, userID, recipeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cartIndex(userID, recipeID) >= 0, nil
}

// ListCart returns the user's cart entries oldest first
func (s *InMemoryStore) ListCart(_ context.Context, userID int64) ([]models.CartEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.CartEntry, 0)
	for _, c := range s.cart {
		if c.UserID == userID {
			entries = append(entries, c)
		}
	}
	return entries, nil
}

func (s *InMemoryStore) cartIndex(userID, recipeID int64) int {
	return slices.IndexFunc(s.cart, func(c models.CartEntry) bool {
		return c.UserID == userID && c.RecipeID == recipeID
	})
}
