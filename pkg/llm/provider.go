package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Model, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Model     string // Override default model
	MaxTokens int
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider defines the contract for any chat-completion backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response text
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Name identifies the provider in logs
	Name() string
}

// ErrEmptyResponse marks a 200 response whose body carried no usable text.
var ErrEmptyResponse = errors.New("provider returned no text")

// StatusError carries a non-2xx provider status so callers can branch on
// rate limiting.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether the provider answered HTTP 429.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 429
}
