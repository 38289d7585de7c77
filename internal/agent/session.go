package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rideright/storefront/pkg/memory"
)

// DefaultHistoryWindow bounds how many messages a session keeps. Older
// messages fall off so prompts stay a predictable size.
const DefaultHistoryWindow = 40

// DefaultSessionTTL is how long an idle chat session survives in the
// backing store.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore persists chat history per session. The system prompt is
// assembled fresh each turn and never stored, so an anonymous session
// that later signs in picks up the orders guidance immediately.
type SessionStore struct {
	store  memory.Memory
	window int
	ttl    time.Duration
}

// NewSessionStore wraps a memory backend. A zero window or TTL falls back
// to the defaults.
func NewSessionStore(store memory.Memory, window int, ttl time.Duration) *SessionStore {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{store: store, window: window, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "chat:" + sessionID
}

// History loads the session's messages, oldest first. A missing session
// yields an empty history.
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	raw, err := s.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to load chat session: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var messages []Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat session: %w", err)
	}
	return messages, nil
}

// Append saves new messages to the session, trimming to the window and
// refreshing the TTL.
func (s *SessionStore) Append(ctx context.Context, sessionID string, newMessages ...Message) error {
	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}

	history = append(history, newMessages...)
	if len(history) > s.window {
		history = history[len(history)-s.window:]
		// The window must not start mid-turn: a tool message without its
		// originating tool_calls message, or a dangling assistant
		// tool_calls message, is rejected by the completions API.
		for len(history) > 0 && history[0].Role != "user" {
			history = history[1:]
		}
	}

	encoded, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode chat session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey(sessionID), string(encoded), s.ttl); err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}

// Reset discards the session's history.
func (s *SessionStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionKey(sessionID)); err != nil {
		return fmt.Errorf("failed to reset chat session: %w", err)
	}
	return nil
}
