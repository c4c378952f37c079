// Package llmtest provides a deterministic, scriptable Provider for
// tests. No network, no randomness: answers come from a rule table, and
// failure modes (provider error, budget exhaustion) are switches.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"tabsensei-be/pkg/llm"
)

// Rule maps a prompt substring to a canned response. The first rule
// whose Contains matches (system + user text concatenated) wins.
type Rule struct {
	Contains string
	Response string
}

// Stub implements llm.Provider. The zero value answers every call with
// Default (or a fixed marker when Default is empty).
type Stub struct {
	mu sync.Mutex

	// Rules are checked in order against the concatenated prompt.
	Rules []Rule

	// Default is returned when no rule matches.
	Default string

	// Err, when set, makes every call fail with it. Use
	// context.DeadlineExceeded to simulate a timed-out provider.
	Err error

	// Hang, when set, blocks until the context expires, simulating a
	// provider slower than any budget. The configured Err (or ctx.Err)
	// is then returned.
	Hang bool

	// Calls records every prompt the stub saw, in order.
	Calls []string
}

var _ llm.Provider = (*Stub)(nil)

func (s *Stub) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return s.answer(ctx, b.String())
}

func (s *Stub) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	return s.answer(ctx, prompt)
}

func (s *Stub) answer(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, prompt)
	hang, err := s.Hang, s.Err
	s.mu.Unlock()

	if hang {
		<-ctx.Done()
		if err != nil {
			return "", err
		}
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Rules {
		if strings.Contains(prompt, r.Contains) {
			return r.Response, nil
		}
	}
	if s.Default != "" {
		return s.Default, nil
	}
	return "stubbed response", nil
}

// CallCount returns how many calls the stub has served.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// LastCall returns the most recent prompt, or "".
func (s *Stub) LastCall() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Calls) == 0 {
		return ""
	}
	return s.Calls[len(s.Calls)-1]
}
