package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rideright/storefront/pkg/logger"
)

// Message is a chat completion message. Tool results are sent back with
// role "tool" and the originating call's ID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a model-requested function invocation.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and its arguments. Arguments is
// a JSON document transported as a string, per the chat completions API.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolSpec struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type completionRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	Tools       []toolSpec `json:"tools,omitempty"`
	Temperature float32    `json:"temperature,omitempty"`
	MaxTokens   int        `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

// TokenUsage reports prompt and completion token counts for a turn.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is one model response: either final text or tool calls to run.
type Completion struct {
	Message      Message
	FinishReason string
	Model        string
	Usage        TokenUsage
}

// ModelClient produces chat completions. Implemented by Gateway; tests
// supply fakes.
type ModelClient interface {
	Complete(ctx context.Context, messages []Message, tools []Tool) (*Completion, error)
}

// GatewayOptions configure the chat completion client.
type GatewayOptions struct {
	APIKey      string
	BaseURL     string // defaults to the OpenAI API
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	Logger      logger.Logger
}

// Gateway calls an OpenAI-compatible chat completions endpoint with
// function calling enabled.
type Gateway struct {
	opts       GatewayOptions
	httpClient *http.Client
	log        logger.Logger
}

// NewGateway creates a gateway client. The API key is checked at request
// time so a storefront without chat configured still starts.
func NewGateway(opts GatewayOptions) *Gateway {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOp{}
	}

	return &Gateway{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		log:        opts.Logger,
	}
}

// Complete sends the conversation and tool definitions to the model and
// returns its next message.
func (g *Gateway) Complete(ctx context.Context, messages []Message, tools []Tool) (*Completion, error) {
	if g.opts.APIKey == "" {
		return nil, fmt.Errorf("model API key not configured")
	}

	reqBody := completionRequest{
		Model:       g.opts.Model,
		Messages:    messages,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	}
	for _, t := range tools {
		reqBody.Tools = append(reqBody.Tools, toolSpec{
			Type: "function",
			Function: functionSpec{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	g.log.Info("Model request initiated", map[string]interface{}{
		"operation":     "model_request",
		"model":         g.opts.Model,
		"message_count": len(messages),
		"tool_count":    len(tools),
	})
	startTime := time.Now()

	body, statusCode, err := g.executeWithRetry(ctx, jsonData)
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusOK {
		return nil, g.handleError(statusCode, body)
	}

	var decoded completionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	choice := decoded.Choices[0]
	g.log.Info("Model response received", map[string]interface{}{
		"operation":     "model_response",
		"model":         decoded.Model,
		"finish_reason": choice.FinishReason,
		"total_tokens":  decoded.Usage.TotalTokens,
		"duration_ms":   time.Since(startTime).Milliseconds(),
	})

	return &Completion{
		Message:      choice.Message,
		FinishReason: choice.FinishReason,
		Model:        decoded.Model,
		Usage:        decoded.Usage,
	}, nil
}

// executeWithRetry posts the request with exponential backoff. Client
// errors other than rate limits return immediately; network failures,
// 429s and 5xx responses are retried.
func (g *Gateway) executeWithRetry(ctx context.Context, jsonData []byte) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := g.opts.RetryDelay * time.Duration(1<<uint(attempt-1))
			g.log.Warn("Model request failed, retrying", map[string]interface{}{
				"operation":      "model_request_retry",
				"attempt":        attempt,
				"max_retries":    g.opts.MaxRetries,
				"retry_delay_ms": delay.Milliseconds(),
				"error":          lastErr.Error(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			g.opts.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+g.opts.APIKey)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable {
			return body, resp.StatusCode, nil
		}
		lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	return nil, 0, fmt.Errorf("request failed after %d retries: %w", g.opts.MaxRetries, lastErr)
}

func (g *Gateway) handleError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("model API error: invalid or missing API key")
	case http.StatusTooManyRequests:
		return fmt.Errorf("model API error: rate limit exceeded")
	case http.StatusBadRequest:
		return fmt.Errorf("model API error: invalid request - %s", string(body))
	default:
		return fmt.Errorf("model API error (status %d): %s", statusCode, string(body))
	}
}
