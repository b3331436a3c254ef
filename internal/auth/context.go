package auth

import (
	"context"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

type contextKey struct{}

type holderKey struct{}

// userHolder is filled by WithUser so middleware mounted before
// authentication can still see who made the request
type userHolder struct {
	user *models.User
}

// WithUser returns a copy of ctx carrying the authenticated user
func WithUser(ctx context.Context, user *models.User) context.Context {
	if h, ok := ctx.Value(holderKey{}).(*userHolder); ok {
		h.user = user
	}
	return context.WithValue(ctx, contextKey{}, user)
}

// WithUserHolder returns a copy of ctx with an empty slot that a later WithUser fills
func WithUserHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, holderKey{}, &userHolder{})
}

// HeldUserID returns the ID recorded in the slot added by WithUserHolder, or 0
func HeldUserID(ctx context.Context) int64 {
	if h, ok := ctx.Value(holderKey{}).(*userHolder); ok && h.user != nil {
		return h.user.ID
	}
	return 0
}

// UserFromContext returns the authenticated user, or nil for anonymous requests
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}

// UserID returns the authenticated user's ID, or 0 for anonymous requests
func UserID(ctx context.Context) int64 {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return 0
}
