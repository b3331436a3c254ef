package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists auth tokens. A user holds at most one token at a time.
type TokenStore interface {
	// Issue returns the user's live token, creating one if needed.
	Issue(ctx context.Context, userID int64) (string, error)
	// Lookup resolves a token to its user ID.
	Lookup(ctx context.Context, token string) (int64, error)
	// Revoke deletes a token; revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
	Close() error
}

// NewToken generates a random 32 character hex token
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type memoryToken struct {
	userID    int64
	expiresAt time.Time
}

// MemoryTokenStore keeps tokens in process memory
type MemoryTokenStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]memoryToken
	byUser map[int64]string
	now    func() time.Time
}

// NewMemoryTokenStore creates a token store; ttl <= 0 means tokens never expire
func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{
		ttl:    ttl,
		tokens: make(map[string]memoryToken),
		byUser: make(map[int64]string),
		now:    time.Now,
	}
}

func (s *MemoryTokenStore) Issue(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.byUser[userID]; ok {
		if !s.expired(s.tokens[token]) {
			return token, nil
		}
		delete(s.tokens, token)
	}

	token := NewToken()
	entry := memoryToken{userID: userID}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.tokens[token] = entry
	s.byUser[userID] = token
	return token, nil
}

func (s *MemoryTokenStore) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok || s.expired(entry) {
		return 0, ErrTokenNotFound
	}
	return entry.userID, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.tokens[token]; ok {
		delete(s.tokens, token)
		delete(s.byUser, entry.userID)
	}
	return nil
}

func (s *MemoryTokenStore) Close() error { return nil }

func (s *MemoryTokenStore) expired(t memoryToken) bool {
	return !t.expiresAt.IsZero() && !s.now().Before(t.expiresAt)
}
