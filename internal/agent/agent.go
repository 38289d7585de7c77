// Package agent implements the shopping assistant: a tool-calling chat
// loop over an OpenAI-compatible model, with inventory search for
// everyone and order history for signed-in users.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rideright/storefront/internal/auth"
	"github.com/rideright/storefront/pkg/logger"
	"github.com/rideright/storefront/pkg/telemetry"
)

// MaxToolRounds bounds how many tool-call rounds one user turn may take
// before the loop gives up and asks the model for a final answer.
const MaxToolRounds = 5

// Agent runs chat turns. Tools are assembled per turn from the caller's
// identity, so an anonymous session never carries the orders tool.
type Agent struct {
	model      ModelClient
	sessions   *SessionStore
	searchTool Tool
	ordersFor  func(userID string) *Tool
	log        logger.Logger
}

// Options wire the agent's collaborators.
type Options struct {
	Model    ModelClient
	Sessions *SessionStore
	// SearchTool serves every session.
	SearchTool Tool
	// OrdersTool builds the order history tool for a user, or nil for
	// anonymous sessions. Defaults to a constructor returning nil.
	OrdersTool func(userID string) *Tool
	Logger     logger.Logger
}

// New creates the shopping agent.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts.OrdersTool == nil {
		opts.OrdersTool = func(string) *Tool { return nil }
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOp{}
	}
	return &Agent{
		model:      opts.Model,
		sessions:   opts.Sessions,
		searchTool: opts.SearchTool,
		ordersFor:  opts.OrdersTool,
		log:        opts.Logger,
	}, nil
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Content   string     `json:"content"`
	ToolCalls int        `json:"toolCalls"`
	Usage     TokenUsage `json:"usage"`
}

// toolsFor assembles the tool set for a session.
func (a *Agent) toolsFor(identity auth.Identity) []Tool {
	tools := []Tool{a.searchTool}
	if identity.Authenticated() {
		if ordersTool := a.ordersFor(identity.UserID); ordersTool != nil {
			tools = append(tools, *ordersTool)
		}
	}
	return tools
}

// Chat runs one user turn: load history, call the model, execute any
// requested tools and feed their results back, then persist the exchange.
func (a *Agent) Chat(ctx context.Context, sessionID, userMessage string, identity auth.Identity) (*Reply, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	if userMessage == "" {
		return nil, fmt.Errorf("message is required")
	}

	ctx, span := telemetry.StartSpan(ctx, "agent.chat",
		attribute.Bool("chat.authenticated", identity.Authenticated()),
	)
	defer span.End()

	history, err := a.sessions.History(ctx, sessionID)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	tools := a.toolsFor(identity)
	toolsByName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		toolsByName[t.Name] = t
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    "system",
		Content: InstructionsFor(identity.Authenticated()),
	})
	messages = append(messages, history...)
	userMsg := Message{Role: "user", Content: userMessage}
	messages = append(messages, userMsg)

	a.log.Info("Chat turn started", map[string]interface{}{
		"operation":     "agent_chat",
		"authenticated": identity.Authenticated(),
		"history_len":   len(history),
		"tool_count":    len(tools),
	})

	var turnMessages []Message
	var usage TokenUsage
	toolCallCount := 0

	for round := 0; ; round++ {
		// Past the round budget the model gets no tools, forcing a
		// plain-text answer.
		offered := tools
		if round >= MaxToolRounds {
			offered = nil
		}

		completion, err := a.model.Complete(ctx, messages, offered)
		if err != nil {
			err = fmt.Errorf("chat turn failed: %w", err)
			telemetry.RecordError(ctx, err)
			return nil, err
		}
		usage.PromptTokens += completion.Usage.PromptTokens
		usage.CompletionTokens += completion.Usage.CompletionTokens
		usage.TotalTokens += completion.Usage.TotalTokens

		messages = append(messages, completion.Message)
		turnMessages = append(turnMessages, completion.Message)

		if len(completion.Message.ToolCalls) == 0 {
			span.SetAttributes(
				attribute.Int("chat.tool_calls", toolCallCount),
				attribute.Int("chat.total_tokens", usage.TotalTokens),
			)
			if err := a.sessions.Append(ctx, sessionID, append([]Message{userMsg}, turnMessages...)...); err != nil {
				a.log.Error("Failed to persist chat turn", map[string]interface{}{
					"operation": "agent_chat",
					"error":     err.Error(),
				})
			}
			return &Reply{
				Content:   completion.Message.Content,
				ToolCalls: toolCallCount,
				Usage:     usage,
			}, nil
		}

		for _, call := range completion.Message.ToolCalls {
			toolCallCount++
			result := a.executeTool(ctx, toolsByName, call)
			toolMsg := Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
			}
			messages = append(messages, toolMsg)
			turnMessages = append(turnMessages, toolMsg)
		}
	}
}

// executeTool runs one tool call and serializes the outcome. Failures are
// reported as JSON back to the model rather than aborting the turn.
func (a *Agent) executeTool(ctx context.Context, toolsByName map[string]Tool, call ToolCall) string {
	tool, ok := toolsByName[call.Function.Name]
	if !ok {
		a.log.Warn("Model requested unknown tool", map[string]interface{}{
			"operation": "agent_tool_call",
			"tool":      call.Function.Name,
		})
		return fmt.Sprintf(`{"error": "unknown tool %q"}`, call.Function.Name)
	}

	a.log.Info("Executing tool call", map[string]interface{}{
		"operation": "agent_tool_call",
		"tool":      tool.Name,
	})

	ctx, span := telemetry.StartSpan(ctx, "agent.tool",
		attribute.String("tool.name", tool.Name),
	)
	defer span.End()

	result, err := tool.Execute(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		telemetry.RecordError(ctx, err)
		a.log.Error("Tool execution failed", map[string]interface{}{
			"operation": "agent_tool_call",
			"tool":      tool.Name,
			"error":     err.Error(),
		})
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(encoded)
}
