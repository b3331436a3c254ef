package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
)

type testEnv struct {
	store   *repository.InMemoryStore
	auth    *service.AuthService
	users   *service.UserService
	recipes *service.RecipeService
	router  chi.Router
	tag     models.Tag
	egg     models.Ingredient
	flour   models.Ingredient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()

	store := repository.NewInMemoryStore()
	hasher := auth.NewHasher(bcrypt.MinCost)
	env := &testEnv{
		store:   store,
		auth:    service.NewAuthService(store, auth.NewMemoryTokenStore(0), hasher),
		users:   service.NewUserService(store, hasher),
		recipes: service.NewRecipeService(store, log),
	}

	env.tag = models.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}
	if err := store.CreateTag(ctx, &env.tag); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	ings := []models.Ingredient{
		{Name: "Egg", MeasurementUnit: "pcs"},
		{Name: "Flour", MeasurementUnit: "g"},
	}
	if _, err := store.CreateIngredients(ctx, ings); err != nil {
		t.Fatalf("CreateIngredients() error = %v", err)
	}
	env.egg, env.flour = ings[0], ings[1]

	paginator := Paginator{DefaultSize: 6, MaxSize: 100}
	authHandler := NewAuthHandler(env.auth, log)
	userHandler := NewUserHandler(env.users, paginator, log)
	recipeHandler := NewRecipeHandler(env.recipes, paginator, "shopping_list.txt", log)
	catalogHandler := NewCatalogHandler(service.NewCatalogService(store, store), log)

	r := chi.NewRouter()
	r.Post("/api/auth/token/login", authHandler.Login)
	r.Post("/api/auth/token/logout", authHandler.Logout)
	r.Get("/api/users", userHandler.List)
	r.Post("/api/users", userHandler.Create)
	r.Get("/api/users/me", userHandler.Me)
	r.Delete("/api/users/me", userHandler.DeleteMe)
	r.Post("/api/users/set_password", userHandler.SetPassword)
	r.Get("/api/users/subscriptions", userHandler.Subscriptions)
	r.Get("/api/users/{userID}", userHandler.Get)
	r.Post("/api/users/{userID}/subscribe", userHandler.Subscribe)
	r.Delete("/api/users/{userID}/subscribe", userHandler.Unsubscribe)
	r.Get("/api/tags", catalogHandler.ListTags)
	r.Get("/api/tags/{tagID}", catalogHandler.GetTag)
	r.Get("/api/ingredients", catalogHandler.ListIngredients)
	r.Get("/api/ingredients/{ingredientID}", catalogHandler.GetIngredient)
	r.Get("/api/recipes", recipeHandler.List)
	r.Post("/api/recipes", recipeHandler.Create)
	r.Get("/api/recipes/download_shopping_cart", recipeHandler.DownloadShoppingCart)
	r.Get("/api/recipes/{recipeID}", recipeHandler.Get)
	r.Patch("/api/recipes/{recipeID}", recipeHandler.Update)
	r.Delete("/api/recipes/{recipeID}", recipeHandler.Delete)
	r.Post("/api/recipes/{recipeID}/favorite", recipeHandler.AddFavorite)
	r.Delete("/api/recipes/{recipeID}/favorite", recipeHandler.RemoveFavorite)
	r.Post("/api/recipes/{recipeID}/shopping_cart", recipeHandler.AddToCart)
	r.Delete("/api/recipes/{recipeID}/shopping_cart", recipeHandler.RemoveFromCart)
	env.router = r

	return env
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	ctx := context.Background()

	created, err := e.users.Register(ctx, models.CreateUserRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "password-" + username,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}

	user, err := e.store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser(%d) error = %v", created.ID, err)
	}
	return user
}

func (e *testEnv) createRecipe(t *testing.T, author *models.User, name string, ingredients ...models.RecipeIngredient) int64 {
	t.Helper()
	r, err := e.recipes.Create(context.Background(), author.ID, models.RecipeRequest{
		Ingredients: ingredients,
		Tags:        []int64{e.tag.ID},
		Image:       "data:image/png;base64,AAAA",
		Name:        name,
		Text:        "Cook it",
		CookingTime: 10,
	})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return r.ID
}

// do sends a request through the router; body may be nil, a raw string or a value to encode
func (e *testEnv) do(t *testing.T, method, target string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler("test", logger.Discard())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody[HealthResponse](t, w)
	if resp.Status != "healthy" || resp.Version != "test" {
		t.Errorf("response = %+v", resp)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", repository.ErrRecipeNotFound, http.StatusNotFound},
		{"already exists", repository.ErrEmailTaken, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"rule violation", service.ErrSelfSubscription, http.StatusBadRequest},
		{"password too long", fmt.Errorf("register: %w", auth.ErrPasswordTooLong), http.StatusBadRequest},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err, logger.Discard())

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}
