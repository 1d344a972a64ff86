// Package redis holds the Redis-backed session store. Sessions are stored
// as JSON under a prefixed key whose TTL mirrors the session expiry, so
// Redis itself does the garbage collection.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
)

const defaultSessionPrefix = "session:"

type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

// ErrNotFound is returned when a session is not found.
var ErrNotFound error = notFoundError{}

// SessionStore implements ports.SessionStore on a Redis client.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a store using the default key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, defaultSessionPrefix)
}

// NewSessionStoreWithPrefix creates a store with a custom key prefix, for
// deployments sharing a Redis instance.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save persists the session. Saving an already-expired session is an error
// rather than a silent no-op, since it signals a caller bug.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

// Get returns the session for id, or ErrNotFound when it is missing or past
// its expiry.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	var sess domainauth.Session
	if id == "" {
		return sess, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return sess, ErrNotFound
	case err != nil:
		return sess, fmt.Errorf("redis get: %w", err)
	}

	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// The key TTL should have evicted this already; double-check in case the
	// writer's clock disagreed with ours.
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}
