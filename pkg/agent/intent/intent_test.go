package intent

import (
	"testing"

	"tabsensei-be/pkg/agent/tab"
)

func q(text string, history ...tab.Turn) tab.Query {
	return tab.Query{Text: text, History: history}
}

func pricedTab() tab.Tab {
	return tab.Tab{ID: 1, Title: "Sony WH-1000XM5 - $348.00 - Amazon.com", URL: "https://www.amazon.com/dp/B09", Text: "Price: $348.00. Add to cart."}
}

func plainTab() tab.Tab {
	return tab.Tab{ID: 2, Title: "Quantum computing - Wikipedia", URL: "https://en.wikipedia.org/wiki/Quantum_computing", Text: "A quantum computer is a machine."}
}

func TestClassifyModes(t *testing.T) {
	tests := []struct {
		name     string
		query    tab.Query
		tabs     []tab.Tab
		wantMode Mode
		wantRule string
	}{
		{
			name:     "tab count",
			query:    q("how many tabs do I have"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeAnalysis,
			wantRule: "tab_count",
		},
		{
			name:     "cleanup",
			query:    q("close all tabs irrelevant to cooking"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeCleanup,
			wantRule: "cleanup",
		},
		{
			name:     "compare",
			query:    q("compare these laptops"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeMulti,
			wantRule: "compare",
		},
		{
			name:     "analysis",
			query:    q("summarize all tabs for me"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeAnalysis,
			wantRule: "analysis",
		},
		{
			name:     "single question",
			query:    q("what is johnny depp's birthdate"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeSingle,
			wantRule: "single_question",
		},
		{
			name:     "clarify on bare ack",
			query:    q("ok"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeClarify,
			wantRule: "clarify",
		},
		{
			name:     "reminder phrase",
			query:    q("remind me to check this at 5pm"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeReminder,
			wantRule: "reminder",
		},
		{
			name:     "default falls back to analysis",
			query:    q("take care of my messy browser window please"),
			tabs:     []tab.Tab{plainTab()},
			wantMode: ModeAnalysis,
			wantRule: "default",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query, tt.tabs)
			if got.Mode != tt.wantMode {
				t.Errorf("Classify(%q) mode = %q, want %q", tt.query.Text, got.Mode, tt.wantMode)
			}
			if got.Rule != tt.wantRule {
				t.Errorf("Classify(%q) rule = %q, want %q", tt.query.Text, got.Rule, tt.wantRule)
			}
		})
	}
}

func TestTabCountShortCircuit(t *testing.T) {
	plan := Classify(q("how many tabs are open?"), []tab.Tab{plainTab(), pricedTab()})
	if !plan.WantsTabCount {
		t.Error("tab-count query did not set WantsTabCount")
	}
}

func TestPriceAlertConjunction(t *testing.T) {
	priceHistory := []tab.Turn{
		{Role: "user", Text: "how much are these headphones"},
		{Role: "assistant", Text: "The Sony WH-1000XM5 is $348.00. Want me to tell you when the price drops?"},
	}

	tests := []struct {
		name  string
		query tab.Query
		tabs  []tab.Tab
		want  bool
	}{
		{
			name:  "full conjunction holds",
			query: q("yes, notify me when the price drops", priceHistory...),
			tabs:  []tab.Tab{pricedTab()},
			want:  true,
		},
		{
			name:  "confirmation with price context in history",
			query: q("yes please", priceHistory...),
			tabs:  []tab.Tab{pricedTab()},
			want:  true,
		},
		{
			name:  "no priced tab blocks the alert",
			query: q("yes, notify me when the price drops", priceHistory...),
			tabs:  []tab.Tab{plainTab()},
			want:  false,
		},
		{
			name:  "bare yes with no price context stays out",
			query: q("yes"),
			tabs:  []tab.Tab{pricedTab()},
			want:  false,
		},
		{
			name:  "price talk without an alert verb stays out",
			query: q("that price is expensive"),
			tabs:  []tab.Tab{pricedTab()},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query, tt.tabs)
			if (got.Mode == ModePriceAlert) != tt.want {
				t.Errorf("Classify(%q) mode = %q, want price_alert=%v", tt.query.Text, got.Mode, tt.want)
			}
		})
	}
}

func TestReminderFollowUps(t *testing.T) {
	reminderContext := []tab.Turn{
		{Role: "user", Text: "remind me to join the call"},
		{Role: "assistant", Text: "Sure — when should I remind you?"},
	}

	tests := []struct {
		name  string
		query tab.Query
		want  bool
	}{
		{
			name:  "short time follow-up",
			query: q("at 6pm", reminderContext...),
			want:  true,
		},
		{
			name:  "correction with a time",
			query: q("I said 7pm not 6pm", reminderContext...),
			want:  true,
		},
		{
			name:  "time plus reminder verb without context",
			query: q("wake me at 7am tomorrow"),
			want:  true,
		},
		{
			name:  "time alone without context is not a reminder",
			query: q("at 6pm"),
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query, nil)
			if (got.Mode == ModeReminder) != tt.want {
				t.Errorf("Classify(%q) mode = %q, want reminder=%v", tt.query.Text, got.Mode, tt.want)
			}
		})
	}
}

func TestPipelineFlags(t *testing.T) {
	manyTabs := make([]tab.Tab, 9)
	for i := range manyTabs {
		manyTabs[i] = tab.Tab{ID: i + 1, Title: "Tab", URL: "https://example.org"}
	}

	plan := Classify(q("summarize all tabs"), manyTabs)
	if !plan.NeedsClassification || !plan.NeedsSummarization || !plan.NeedsPriceExtraction {
		t.Errorf("analysis plan flags = %+v", plan)
	}
	if !plan.ShouldAskCleanup {
		t.Error("nine tabs should raise ShouldAskCleanup")
	}

	single := Classify(q("when was einstein born"), manyTabs[:2])
	if single.NeedsSummarization || single.NeedsClassification {
		t.Errorf("single plan should skip the pipeline, got %+v", single)
	}
}

func TestClassifyOrderIsStable(t *testing.T) {
	// "compare" phrasing outranks the question-mark heuristic.
	plan := Classify(q("what's the difference between these two laptops?"), []tab.Tab{plainTab()})
	if plan.Mode != ModeMulti {
		t.Errorf("compare phrasing should win over single question, got %q", plan.Mode)
	}
	// Tab-count outranks analysis phrasing.
	plan = Classify(q("how many tabs, and summarize them"), []tab.Tab{plainTab()})
	if plan.Rule != "tab_count" {
		t.Errorf("tab_count should win over analysis, got %q", plan.Rule)
	}
}
