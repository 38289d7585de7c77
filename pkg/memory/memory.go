// Package memory provides key/value state storage for session data. The
// in-memory store is the default; a Redis-backed store is used when the
// service is configured with a Redis URL so chat sessions survive restarts.
package memory

import (
	"context"
	"sync"
	"time"
)

// Memory is the storage contract for session state.
type Memory interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Store is an in-memory implementation of Memory with per-key TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]entry)}
}

// Get retrieves a value. A missing or expired key returns "" with no error.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return "", nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return "", nil
	}
	return e.value, nil
}

// Set stores a value with an optional TTL (0 = no expiry).
func (s *Store) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Exists reports whether a key is present and unexpired.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}
