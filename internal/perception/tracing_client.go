package perception

import (
	"context"
	"sync/atomic"
	"time"

	"sprinkle/internal/logging"

	"go.uber.org/zap"
)

// TracingLLMClient wraps any LLMClient and logs every interaction to the api category.
type TracingLLMClient struct {
	underlying LLMClient
	calls      atomic.Int64
	failures   atomic.Int64
}

// NewTracingLLMClient creates a tracing wrapper around an existing LLM client.
func NewTracingLLMClient(underlying LLMClient) *TracingLLMClient {
	return &TracingLLMClient{underlying: underlying}
}

// CompleteWithSystem forwards to the wrapped client, recording latency and sizes.
func (tc *TracingLLMClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	tc.calls.Add(1)

	out, err := tc.underlying.CompleteWithSystem(ctx, systemPrompt, userPrompt)

	log := logging.Get(logging.CategoryAPI)
	fields := []zap.Field{
		zap.Duration("latency", time.Since(start)),
		zap.Int("system_bytes", len(systemPrompt)),
		zap.Int("user_bytes", len(userPrompt)),
	}
	if err != nil {
		tc.failures.Add(1)
		log.Warn("completion failed", append(fields, zap.Error(err))...)
		return "", err
	}
	log.Debug("completion", append(fields, zap.Int("response_bytes", len(out)))...)
	return out, nil
}

// Calls returns the number of completions attempted.
func (tc *TracingLLMClient) Calls() int64 {
	return tc.calls.Load()
}

// Failures returns the number of completions that returned an error.
func (tc *TracingLLMClient) Failures() int64 {
	return tc.failures.Load()
}
