// Package intent decides the coarse mode for a request: a single
// ordered pass over mutually exclusive rules, first match wins. The
// rules are plain data (rules.go) so each one can be tested and tuned
// on its own; the evaluation order is the contract, the keyword lists
// are not.
package intent

import (
	"strings"

	"tabsensei-be/pkg/agent/price"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/agent/token"
)

// Mode is the coarse intent bucket selected for a request.
type Mode string

const (
	ModeSingle     Mode = "single"
	ModeMulti      Mode = "multi"
	ModeAnalysis   Mode = "analysis"
	ModeCleanup    Mode = "cleanup"
	ModeReminder   Mode = "reminder"
	ModePriceAlert Mode = "price_alert"
	ModeClarify    Mode = "clarify"
)

// Plan is what the classifier hands to the orchestrator. Derived fresh
// per request, never persisted.
type Plan struct {
	Mode Mode

	// Rule names the matched rule, for logs and tests.
	Rule string

	// WantsTabCount short-circuits to the count-and-list path.
	WantsTabCount bool

	ShouldAskCleanup     bool
	NeedsClassification  bool
	NeedsSummarization   bool
	NeedsPriceExtraction bool
}

// askCleanupTabThreshold is the tab count above which any full-pipeline
// reply nudges the user about cleaning up.
const askCleanupTabThreshold = 8

// Signals carries everything the rule predicates may inspect. Price
// extraction over tab text is the only non-trivial probe, so it is
// computed lazily and memoized.
type Signals struct {
	Query   string
	History []tab.Turn

	lower    string
	words    []string
	tabs     []tab.Tab
	tabCount int

	priceProbed bool
	priceFound  bool
}

func newSignals(q tab.Query, tabs []tab.Tab) *Signals {
	lower := strings.ToLower(strings.TrimSpace(q.Text))
	return &Signals{
		Query:    q.Text,
		History:  q.RecentHistory(),
		lower:    lower,
		words:    token.Tokenize(lower),
		tabs:     tabs,
		tabCount: len(tabs),
	}
}

func (s *Signals) contains(phrase string) bool {
	return strings.Contains(s.lower, phrase)
}

func (s *Signals) containsAny(phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s.lower, p) {
			return true
		}
	}
	return false
}

func (s *Signals) hasWord(w string) bool {
	for _, t := range s.words {
		if t == w {
			return true
		}
	}
	return false
}

// historyContainsAny scans the recent turns for any of the phrases.
func (s *Signals) historyContainsAny(phrases []string) bool {
	for _, turn := range s.History {
		lower := strings.ToLower(turn.Text)
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// lastAssistantMentions reports whether the most recent assistant turn
// contains the phrase. Used by the reminder follow-up rules.
func (s *Signals) lastAssistantMentions(phrase string) bool {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role != "assistant" {
			continue
		}
		return strings.Contains(strings.ToLower(s.History[i].Text), phrase)
	}
	return false
}

// anyTabHasPrice probes tab text for a nonzero price, at most once.
func (s *Signals) anyTabHasPrice() bool {
	if s.priceProbed {
		return s.priceFound
	}
	s.priceProbed = true
	for _, tb := range s.tabs {
		if p, ok := price.FromTab(tb); ok && p.Amount > 0 {
			s.priceFound = true
			break
		}
	}
	return s.priceFound
}

// Classify runs the rule list in order and returns the plan of the
// first rule that matches. It cannot fail: the final rule matches
// everything.
func Classify(q tab.Query, tabs []tab.Tab) Plan {
	s := newSignals(q, tabs)
	for _, r := range rules {
		if r.match(s) {
			plan := r.plan(s)
			plan.Rule = r.name
			return plan
		}
	}
	// Unreachable: the default rule always matches. Kept as a guard so a
	// broken rule table still yields a usable plan.
	return Plan{Mode: ModeAnalysis, Rule: "default", NeedsClassification: true, NeedsSummarization: true}
}
