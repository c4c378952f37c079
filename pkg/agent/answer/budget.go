package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Wall-clock budgets for every external completion call. One attempt
// each, never retried; blowing the budget drops to the local fallback.
const (
	// SummaryTimeout bounds one per-tab summary inside a batch.
	SummaryTimeout = 8 * time.Second

	// CountTimeout bounds the conversational tab-count formatting call.
	CountTimeout = 10 * time.Second

	// FormatTimeout bounds workspace-report formatting.
	FormatTimeout = 12 * time.Second

	// VerifyTimeout bounds the secondary chronology check.
	VerifyTimeout = 12 * time.Second

	// SingleQATimeout bounds question answering over one chosen tab.
	SingleQATimeout = 15 * time.Second

	// MultiQATimeout bounds question answering across merged tabs.
	MultiQATimeout = 18 * time.Second
)

// Failure classes for the completion boundary. Callers only ever
// branch on these two; the cause detail rides along via %w chains.
var (
	// ErrProviderTimeout: the call outlived its budget.
	ErrProviderTimeout = errors.New("completion timed out")

	// ErrProviderError: the call failed for any other reason (auth,
	// rate limit, network, bad payload).
	ErrProviderError = errors.New("completion failed")
)

// callBounded runs fn under budget and classifies the failure. The
// result channel is buffered so an overdue fn can finish and be
// discarded without leaking the goroutine; the underlying request is
// cancelled best-effort through the context.
func callBounded(ctx context.Context, budget time.Duration, fn func(context.Context) (string, error)) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("completion panicked: %v", rec)}
			}
		}()
		text, err := fn(cctx)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %v", ErrProviderTimeout, r.err)
			}
			return "", fmt.Errorf("%w: %v", ErrProviderError, r.err)
		}
		text := strings.TrimSpace(r.text)
		if text == "" {
			return "", fmt.Errorf("%w: empty completion", ErrProviderError)
		}
		return text, nil
	case <-cctx.Done():
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return "", ErrProviderTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrProviderError, cctx.Err())
	}
}
