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

// AuthService handles token login and logout
type AuthService struct {
	users  repository.UserRepository
	tokens auth.TokenStore
	hasher *auth.Hasher
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, tokens auth.TokenStore, hasher *auth.Hasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Login checks credentials and returns the user's token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := validation.Struct(&req); err != nil {
		return "", err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Check(user.PasswordHash, req.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Logout revokes a token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Authenticate resolves a token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		// user was deleted after the token was issued
		_ = s.tokens.Revoke(ctx, token)
		return nil, auth.ErrTokenNotFound
	}
	return user, err
}
