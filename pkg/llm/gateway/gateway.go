// Package gateway degrades across LLM providers in a fixed order instead of
// failing. The caller always gets text back, worst case the canned fallback.
package gateway

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/pkg/logger"
	"github.com/visheshc14/career-counselor-chat/pkg/llm"
)

const (
	backoffBase       = 400 * time.Millisecond
	backoffMultiplier = 1.6
)

// Attempt is one candidate in the fallback order: a provider plus the
// model id to request from it.
type Attempt struct {
	Provider llm.LLMProvider
	Model    string
}

type Gateway struct {
	attempts     []Attempt
	systemPrompt string
	fallback     string
	timeout      time.Duration
	sleep        func(time.Duration)
	logger       logger.ILogger
}

type Config struct {
	Attempts     []Attempt
	SystemPrompt string
	Fallback     string
	Timeout      time.Duration
	Logger       logger.ILogger
}

func New(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		attempts:     cfg.Attempts,
		systemPrompt: cfg.SystemPrompt,
		fallback:     cfg.Fallback,
		timeout:      timeout,
		sleep:        time.Sleep,
		logger:       cfg.Logger,
	}
}

// WithSleep replaces the backoff delay function, used by tests.
func (g *Gateway) WithSleep(sleep func(time.Duration)) *Gateway {
	g.sleep = sleep
	return g
}

// Complete tries each attempt in order and returns the first non-empty
// reply. A 429 delays the next attempt by backoffBase * multiplier^i; any
// other failure moves on immediately. It never returns an error: when all
// attempts are exhausted (or none are configured) the fallback text is the
// reply.
func (g *Gateway) Complete(ctx context.Context, prompt string) string {
	history := []llm.Message{
		{Role: "system", Content: g.systemPrompt},
		{Role: "user", Content: prompt},
	}

	for i, attempt := range g.attempts {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		text, err := attempt.Provider.Chat(callCtx, history, llm.WithModel(attempt.Model))
		cancel()

		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}

		if g.logger != nil {
			g.logger.Warn("gateway", "provider attempt failed", map[string]interface{}{
				"provider": attempt.Provider.Name(),
				"model":    attempt.Model,
				"attempt":  i,
				"error":    errString(err),
			})
		}

		if llm.IsRateLimited(err) {
			g.sleep(backoffDelay(i))
		}
	}

	return g.fallback
}

func backoffDelay(attempt int) time.Duration {
	return time.Duration(float64(backoffBase) * math.Pow(backoffMultiplier, float64(attempt)))
}

func errString(err error) string {
	if err == nil {
		return "empty reply"
	}
	return err.Error()
}
