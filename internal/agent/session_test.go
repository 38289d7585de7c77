package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideright/storefront/pkg/memory"
)

func TestSessionHistoryStartsEmpty(t *testing.T) {
	s := NewSessionStore(memory.NewStore(), 0, 0)

	history, err := s.History(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionAppendAndReload(t *testing.T) {
	s := NewSessionStore(memory.NewStore(), 0, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1",
		Message{Role: "user", Content: "hi"},
		Message{Role: "assistant", Content: "hello"},
	))
	require.NoError(t, s.Append(ctx, "s1", Message{Role: "user", Content: "more"}))

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "hello", history[1].Content)
}

func TestSessionWindowDropsOldest(t *testing.T) {
	s := NewSessionStore(memory.NewStore(), 4, 0)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, s.Append(ctx, "s1", Message{Role: "user", Content: fmt.Sprintf("m%d", i)}))
	}

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "m2", history[0].Content)
	assert.Equal(t, "m5", history[3].Content)
}

func TestSessionWindowNeverStartsMidTurn(t *testing.T) {
	s := NewSessionStore(memory.NewStore(), 2, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1",
		Message{Role: "user", Content: "any SUVs?"},
		Message{Role: "assistant", ToolCalls: []ToolCall{{ID: "call-1", Type: "function"}}},
		Message{Role: "tool", ToolCallID: "call-1", Content: "{}"},
		Message{Role: "assistant", Content: "We have three SUVs."},
	))

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	for _, m := range history {
		assert.NotEqual(t, "tool", m.Role, "tool result must not outlive its tool_calls message")
	}
	if len(history) > 0 {
		assert.Equal(t, "user", history[0].Role)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSessionStore(memory.NewStore(), 0, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", Message{Role: "user", Content: "hi"}))
	require.NoError(t, s.Reset(ctx, "s1"))

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewSessionStore(memory.NewStore(), 0, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", Message{Role: "user", Content: "for a"}))

	history, err := s.History(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, history)
}
