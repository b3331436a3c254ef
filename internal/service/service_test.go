package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store   *repository.InMemoryStore
	users   *UserService
	recipes *RecipeService
	auth    *AuthService
	tag     models.Tag
	egg     models.Ingredient
	flour   models.Ingredient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := repository.NewInMemoryStore()
	hasher := auth.NewHasher(bcrypt.MinCost)
	env := &testEnv{
		store:   store,
		users:   NewUserService(store, hasher),
		recipes: NewRecipeService(store, logger.New("error")),
		auth:    NewAuthService(store, auth.NewMemoryTokenStore(0), hasher),
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
	return env
}

func (e *testEnv) register(t *testing.T, username string) int64 {
	t.Helper()
	u, err := e.users.Register(context.Background(), models.CreateUserRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "password-" + username,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}
	return u.ID
}

func (e *testEnv) createRecipe(t *testing.T, authorID int64, name string, ingredients ...models.RecipeIngredient) int64 {
	t.Helper()
	r, err := e.recipes.Create(context.Background(), authorID, models.RecipeRequest{
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

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	tests := []struct {
		name    string
		req     models.CreateUserRequest
		wantErr func(error) bool
	}{
		{
			name: "duplicate email",
			req:  models.CreateUserRequest{Email: "alice@example.com", Username: "alice2", FirstName: "A", LastName: "B", Password: "x"},
			wantErr: func(err error) bool {
				return errors.Is(err, repository.ErrEmailTaken)
			},
		},
		{
			name: "invalid username",
			req:  models.CreateUserRequest{Email: "c@example.com", Username: "bad name!", FirstName: "A", LastName: "B", Password: "x"},
			wantErr: func(err error) bool {
				var verr *validation.Error
				return errors.As(err, &verr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(context.Background(), tt.req)
			if !tt.wantErr(err) {
				t.Errorf("Register() error = %v", err)
			}
		})
	}
}

func TestUserService_SetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.register(t, "alice")

	tests := []struct {
		name    string
		req     models.SetPasswordRequest
		wantErr error
	}{
		{"wrong current password", models.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "new-pass"}, ErrWrongPassword},
		{"same as old", models.SetPasswordRequest{CurrentPassword: "password-alice", NewPassword: "password-alice"}, ErrSamePassword},
		{"success", models.SetPasswordRequest{CurrentPassword: "password-alice", NewPassword: "new-pass"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.users.SetPassword(ctx, id, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetPassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := env.auth.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "new-pass"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
}

func TestUserService_Subscriptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	for _, name := range []string{"one", "two", "three"} {
		env.createRecipe(t, alice, name, models.RecipeIngredient{IngredientID: env.egg.ID, Amount: 1})
	}

	if _, err := env.users.Subscribe(ctx, alice, alice, 0); !errors.Is(err, ErrSelfSubscription) {
		t.Errorf("self Subscribe() error = %v", err)
	}
	if _, err := env.users.Subscribe(ctx, bob, 999, 0); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Subscribe() to missing user error = %v", err)
	}

	sub, err := env.users.Subscribe(ctx, bob, alice, 2)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !sub.IsSubscribed || sub.RecipesCount != 3 || len(sub.Recipes) != 2 {
		t.Errorf("Subscribe() = %+v, want subscribed with 2 of 3 recipes", sub)
	}
	if _, err := env.users.Subscribe(ctx, bob, alice, 0); !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("duplicate Subscribe() error = %v", err)
	}

	list, total, err := env.users.Subscriptions(ctx, bob, models.PageRequest{Page: 1, Limit: 10}, 0)
	if err != nil {
		t.Fatalf("Subscriptions() error = %v", err)
	}
	if total != 1 || list[0].ID != alice || len(list[0].Recipes) != 3 {
		t.Errorf("Subscriptions() = %+v (total %d)", list, total)
	}

	profile, _ := env.users.Get(ctx, bob, alice)
	if !profile.IsSubscribed {
		t.Error("Get() is_subscribed = false after subscribing")
	}

	if err := env.users.Unsubscribe(ctx, bob, alice); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if err := env.users.Unsubscribe(ctx, bob, alice); !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("second Unsubscribe() error = %v", err)
	}
}

func TestAuthService_LoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.register(t, "alice")

	if _, err := env.auth.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "bad"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with bad password error = %v", err)
	}
	if _, err := env.auth.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "bad"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with unknown email error = %v", err)
	}

	token, err := env.auth.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "password-alice"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	user, err := env.auth.Authenticate(ctx, token)
	if err != nil || user.ID != id {
		t.Fatalf("Authenticate() = %v, %v", user, err)
	}

	if err := env.auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := env.auth.Authenticate(ctx, token); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Errorf("Authenticate() after logout error = %v", err)
	}
}
