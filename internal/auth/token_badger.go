package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	tokenKeyPrefix     = "token:"
	tokenUserKeyPrefix = "token_user:"
)

type badgerToken struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BadgerTokenStore implements TokenStore on BadgerDB so tokens survive restarts.
// Expiry is delegated to Badger entry TTLs.
type BadgerTokenStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerTokenStore opens (or creates) a token database at path
func OpenBadgerTokenStore(path string, ttl time.Duration) (*BadgerTokenStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return NewBadgerTokenStore(db, ttl), nil
}

// NewBadgerTokenStore wraps an already open database
func NewBadgerTokenStore(db *badger.DB, ttl time.Duration) *BadgerTokenStore {
	return &BadgerTokenStore{db: db, ttl: ttl}
}

func userKey(userID int64) []byte {
	return []byte(tokenUserKeyPrefix + strconv.FormatInt(userID, 10))
}

func (s *BadgerTokenStore) Issue(_ context.Context, userID int64) (string, error) {
	var token string

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(userID))
		switch {
		case err == nil:
			existing, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if _, err := txn.Get([]byte(tokenKeyPrefix + string(existing))); err == nil {
				token = string(existing)
				return nil
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get user token: %w", err)
		}

		token = NewToken()
		data, err := json.Marshal(badgerToken{UserID: userID, CreatedAt: time.Now().UTC()})
		if err != nil {
			return fmt.Errorf("marshal token: %w", err)
		}

		tokenEntry := badger.NewEntry([]byte(tokenKeyPrefix+token), data)
		userEntry := badger.NewEntry(userKey(userID), []byte(token))
		if s.ttl > 0 {
			tokenEntry = tokenEntry.WithTTL(s.ttl)
			userEntry = userEntry.WithTTL(s.ttl)
		}
		if err := txn.SetEntry(tokenEntry); err != nil {
			return fmt.Errorf("set token: %w", err)
		}
		if err := txn.SetEntry(userEntry); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *BadgerTokenStore) Lookup(_ context.Context, token string) (int64, error) {
	var stored badgerToken

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tokenKeyPrefix + token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTokenNotFound
		}
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return 0, err
	}
	return stored.UserID, nil
}

func (s *BadgerTokenStore) Revoke(ctx context.Context, token string) error {
	userID, err := s.Lookup(ctx, token)
	if errors.Is(err, ErrTokenNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(tokenKeyPrefix + token)); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		if err := txn.Delete(userKey(userID)); err != nil {
			return fmt.Errorf("delete user mapping: %w", err)
		}
		return nil
	})
}

func (s *BadgerTokenStore) Close() error {
	return s.db.Close()
}
