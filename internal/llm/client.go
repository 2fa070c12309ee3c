// Package llm is the boundary to the chat-completion provider: a narrow
// Completer contract, an OpenAI-compatible implementation, a bounded retry
// wrapper, and helpers to pull a JSON object out of free-form model text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-3.5-turbo"

// ErrEmptyResponse is returned when the provider answers with no choices or
// an empty message.
var ErrEmptyResponse = errors.New("empty model response")

// Request is one system+user chat completion.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer is the narrow contract the generation engine and the purpose
// classifier need from a language model.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAIClient implements Completer over the chat completions API of any
// OpenAI-compatible endpoint.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a client. An empty baseURL selects the OpenAI
// default and an empty model selects DefaultModel. The SDK's own retries are
// disabled; callers wrap calls in Do.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}
}

var _ Completer = (*OpenAIClient)(nil)

// Complete sends the request and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (text string, err error) {
	defer func() { observeCompletion(err) }()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm.OpenAIClient.Complete: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("llm.OpenAIClient.Complete: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// IsTransient reports whether err is worth another attempt: rate limiting,
// server-side failures, timeouts and empty answers. Authentication and other
// 4xx errors are permanent, as is a cancelled context.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 408 || apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
