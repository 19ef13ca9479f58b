package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// json is the package-wide JSON codec; json-iterator everywhere.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the boundary abstraction over a completion provider's
// chat/function-calling API.
type Client interface {
	// Chat runs one completion round: the full conversation plus the
	// offered tools go out, one Turn comes back. The Turn either carries
	// final text or requests function calls. An error return is the one
	// failure class the dispatch loop cannot recover from locally (auth,
	// network, quota) and propagates to the request boundary.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (*Turn, error)

	// IsTransientError reports whether an error is temporary (503, rate
	// limit, timeout) and worth another attempt.
	IsTransientError(err error) bool
}

// FallbackClient tries multiple providers in order. Each provider gets up to
// MaxRetries attempts, but only transient errors trigger a re-attempt; the
// dispatch loop itself never retries on top of this.
type FallbackClient struct {
	Clients    []Client
	MaxRetries int
	RetryDelay time.Duration
}

func (f *FallbackClient) Chat(ctx context.Context, messages []Message, tools []ToolSpec) (*Turn, error) {
	var lastErr error
	for i, client := range f.Clients {
		if i > 0 {
			slog.Warn("Previous provider failed, trying fallback", "provider_index", i+1)
		}

		maxRetries := f.MaxRetries
		if maxRetries <= 0 {
			maxRetries = 1
		}

		for retry := 1; retry <= maxRetries; retry++ {
			if retry > 1 {
				slog.Info("Retrying provider", "provider_index", i+1, "attempt", retry, "max", maxRetries)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(retry-1) * f.RetryDelay):
				}
			}

			turn, err := client.Chat(ctx, messages, tools)
			if err == nil {
				return turn, nil
			}

			lastErr = err

			if client.IsTransientError(err) && retry < maxRetries {
				slog.Warn("Provider failed with transient error, retrying", "provider_index", i+1, "error", err)
				continue
			}

			slog.Error("Provider failed", "provider_index", i+1, "error", err)
			break
		}
	}
	return nil, fmt.Errorf("all fallback providers failed. Last error: %w", lastErr)
}

// IsTransientError implements the Client interface. A FallbackClient error
// means every child already failed, so it is treated as final.
func (f *FallbackClient) IsTransientError(err error) bool {
	return false
}
