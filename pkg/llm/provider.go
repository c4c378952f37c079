// Package llm abstracts the text-completion service behind a small
// provider interface. The engine never talks to a vendor API directly;
// it is handed a Provider at construction time, which is also how the
// deterministic test stub gets in.
package llm

import "context"

// Message is one chat turn in provider-neutral form.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Options collects per-call tuning. Zero values mean provider defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

// Option mutates Options; the usual functional-options shape.
type Option func(*Options)

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

// Provider is the text-completion contract. Implementations must honor
// ctx cancellation and deadlines: callers time-box every call and never
// retry, so a hung request has to die with its context.
type Provider interface {
	// Chat completes a multi-turn conversation.
	Chat(ctx context.Context, history []Message, opts ...Option) (string, error)

	// Generate completes a single prompt.
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Complete is the shape the answer paths use: one system instruction
// plus one user message.
func Complete(ctx context.Context, p Provider, system, user string, opts ...Option) (string, error) {
	history := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	return p.Chat(ctx, history, opts...)
}
