package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
)

// UserService handles registration, profiles, passwords and subscriptions
type UserService struct {
	store  repository.Store
	hasher *auth.Hasher
}

// NewUserService creates a new user service
func NewUserService(store repository.Store, hasher *auth.Hasher) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
	}
}

// Register creates a new account
func (s *UserService) Register(ctx context.Context, req models.CreateUserRequest) (*models.CreatedUserResponse, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return &models.CreatedUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// Get returns a user's profile as seen by viewerID (0 for anonymous)
func (s *UserService) Get(ctx context.Context, viewerID, id int64) (*models.UserResponse, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.userResponse(ctx, viewerID, user)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, viewerID int64, page models.PageRequest) ([]models.UserResponse, int, error) {
	users, total, err := s.store.ListUsers(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		resp, err := s.userResponse(ctx, viewerID, &users[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, resp)
	}
	return out, total, nil
}

// Delete removes the account of userID after checking the current password.
// The user's recipes, favorites, cart and subscriptions go with it; their
// token stops resolving because the user no longer exists.
func (s *UserService) Delete(ctx context.Context, userID int64, req models.DeleteAccountRequest) error {
	if err := validation.Struct(&req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Check(user.PasswordHash, req.CurrentPassword) {
		return ErrWrongPassword
	}
	return s.store.DeleteUser(ctx, userID)
}

// SetPassword changes the password of userID.
// The new password is rejected when it matches the stored hash.
func (s *UserService) SetPassword(ctx context.Context, userID int64, req models.SetPasswordRequest) error {
	if err := validation.Struct(&req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Check(user.PasswordHash, req.CurrentPassword) {
		return ErrWrongPassword
	}
	if s.hasher.Check(user.PasswordHash, req.NewPassword) {
		return ErrSamePassword
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, userID, hash)
}

// Subscribe makes userID follow authorID
func (s *UserService) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*models.SubscriptionResponse, error) {
	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.ID == userID {
		return nil, ErrSelfSubscription
	}

	if err := s.store.Subscribe(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	resp, err := s.subscriptionResponse(ctx, userID, author, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unsubscribe stops userID from following authorID
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		return err
	}
	if authorID == userID {
		return ErrSelfSubscription
	}

	if err := s.store.Unsubscribe(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotSubscribed
		}
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}

// Subscriptions returns a page of the authors userID follows, each with up to
// recipesLimit of their recipes (recipesLimit <= 0 means all)
func (s *UserService) Subscriptions(ctx context.Context, userID int64, page models.PageRequest, recipesLimit int) ([]models.SubscriptionResponse, int, error) {
	authors, total, err := s.store.ListSubscribedAuthors(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.subscriptionResponse(ctx, userID, &authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *UserService) userResponse(ctx context.Context, viewerID int64, user *models.User) (models.UserResponse, error) {
	return buildUserResponse(ctx, s.store, viewerID, user)
}

func (s *UserService) subscriptionResponse(ctx context.Context, viewerID int64, author *models.User, recipesLimit int) (models.SubscriptionResponse, error) {
	user, err := s.userResponse(ctx, viewerID, author)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}

	recipes, count, err := s.store.ListRecipes(ctx, models.RecipeFilter{AuthorID: author.ID}, 0, recipesLimit)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}

	short := make([]models.RecipeShort, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, shortRecipe(r))
	}

	return models.SubscriptionResponse{
		UserResponse: user,
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func buildUserResponse(ctx context.Context, subs repository.SubscriptionRepository, viewerID int64, user *models.User) (models.UserResponse, error) {
	resp := models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewerID == 0 || viewerID == user.ID {
		return resp, nil
	}

	subscribed, err := subs.IsSubscribed(ctx, viewerID, user.ID)
	if err != nil {
		return resp, err
	}
	resp.IsSubscribed = subscribed
	return resp, nil
}

func shortRecipe(r models.Recipe) models.RecipeShort {
	return models.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
