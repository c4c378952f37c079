// Package agent is the reasoning engine behind the assistant: intent
// classification, the answer orchestrator and reply assembly wired
// together behind a single Process call. Nothing above Process ever
// sees a panic or an error; every failure leaves as natural language.
package agent

import (
	"context"
	"runtime/debug"
	"strings"

	"tabsensei-be/pkg/agent/answer"
	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/price"
	"tabsensei-be/pkg/agent/reply"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/llm"
)

// Fixed responses for inputs the pipeline can't work with.
const (
	emptyQueryMessage = "I didn't catch a question — what would you like to know about your tabs?"
	emptyTabsMessage  = "You don't have any tabs open for me to look at yet."
	recoverMessage    = "Something went wrong on my side. Please try asking again."
)

type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

// Engine is the per-deployment instance: one provider, one optional
// price store, shared across requests. Engines are safe for concurrent
// use; all per-request state lives on the stack.
type Engine struct {
	orchestrator *answer.Orchestrator
	logger       answer.Logger
}

func New(provider llm.Provider, store price.Store, logger answer.Logger, cfg answer.Config) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		orchestrator: answer.New(provider, store, logger, cfg),
		logger:       logger,
	}
}

// Process handles one user turn end to end.
func (e *Engine) Process(ctx context.Context, q tab.Query, tabs []tab.Tab) (r reply.Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Printf("[ERROR] recovered while processing %q: %v\n%s", q.Text, rec, debug.Stack())
			r = reply.Assemble(answer.Outcome{Text: recoverMessage, Mode: intent.ModeAnalysis})
		}
	}()

	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return reply.Assemble(answer.Outcome{Text: emptyQueryMessage, Mode: intent.ModeClarify})
	}

	cleaned := make([]tab.Tab, 0, len(tabs))
	for _, t := range tabs {
		cleaned = append(cleaned, t.Normalize())
	}
	if len(cleaned) == 0 {
		return reply.Assemble(answer.Outcome{Text: emptyTabsMessage, Mode: intent.ModeClarify})
	}

	plan := intent.Classify(q, cleaned)
	e.logger.Printf("[INFO] intent %s (rule %s) over %d tabs", plan.Mode, plan.Rule, len(cleaned))

	return reply.Assemble(e.orchestrator.Run(ctx, plan, q, cleaned))
}
