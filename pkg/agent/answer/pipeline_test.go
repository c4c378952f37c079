package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/llm/llmtest"
)

func analysisPlan() intent.Plan {
	return intent.Plan{
		Mode:                 intent.ModeAnalysis,
		NeedsClassification:  true,
		NeedsSummarization:   true,
		NeedsPriceExtraction: true,
	}
}

func workspaceTabs() []tab.Tab {
	return []tab.Tab{
		{ID: 1, Title: "Sony WH-1000XM5 | Amazon", URL: "https://www.amazon.com/sony-wh1000xm5", Text: "Industry leading noise cancellation. Price: $279.99 with free returns."},
		{ID: 2, Title: "Quantum computing - Wikipedia", URL: "https://en.wikipedia.org/wiki/Quantum_computing", Text: "Quantum computing exploits quantum mechanical phenomena to perform computation."},
		{ID: 3, Title: "Project board", URL: "https://github.com/acme/roadmap", Text: "Open issues and milestones for the acme roadmap planning work."},
	}
}

func TestAnalysisOutcome(t *testing.T) {
	stub := &llmtest.Stub{
		Rules:   []llmtest.Rule{{Contains: "Workspace:", Response: "You're juggling shopping, research and project tabs; all tidy."}},
		Default: "Covers one topic in a single line.",
	}
	o := newTestOrchestrator(stub, nil)

	out := o.fullPipeline(context.Background(), analysisPlan(), tab.Query{Text: "summarize my tabs"}, workspaceTabs())

	if out.Mode != intent.ModeAnalysis {
		t.Fatalf("mode = %q, want analysis", out.Mode)
	}
	if out.Text != "You're juggling shopping, research and project tabs; all tidy." {
		t.Errorf("text = %q, want the formatted report", out.Text)
	}
	// Three summaries plus the formatting call.
	if stub.CallCount() != 4 {
		t.Errorf("calls = %d, want 4", stub.CallCount())
	}
	ws := out.WorkspaceSummary
	if ws == nil || ws["total_tabs"] != 3 {
		t.Fatalf("workspace summary = %v, want total_tabs=3", ws)
	}
	if _, ok := ws["categories"].(map[string]int); !ok {
		t.Errorf("workspace summary missing category counts: %v", ws)
	}
	if out.PriceInfo == nil {
		t.Error("a priced shopping tab should surface in price_info")
	}
	if out.ShouldAskCleanup {
		t.Error("three distinct tabs should not trigger the cleanup nudge")
	}
}

func TestAnalysisNudgesCleanupOnDuplicates(t *testing.T) {
	stub := &llmtest.Stub{Default: "A report."}
	o := newTestOrchestrator(stub, nil)

	tabs := append(workspaceTabs(), tab.Tab{
		ID: 4, Title: "Board again", URL: "https://github.com/acme/roadmap?tab=issues", Text: "Same page, second visit.",
	})
	out := o.fullPipeline(context.Background(), analysisPlan(), tab.Query{Text: "summarize my tabs"}, tabs)

	if !out.ShouldAskCleanup {
		t.Error("a duplicate tab should raise should_ask_cleanup")
	}
	if ws := out.WorkspaceSummary; ws["duplicate_tabs"] != 1 {
		t.Errorf("workspace summary = %v, want duplicate_tabs=1", ws)
	}
}

func TestAnalysisDegradesToTemplate(t *testing.T) {
	stub := &llmtest.Stub{Err: errors.New("provider down")}
	o := newTestOrchestrator(stub, nil)

	out := o.fullPipeline(context.Background(), analysisPlan(), tab.Query{Text: "summarize my tabs"}, workspaceTabs())

	if !out.Degraded {
		t.Fatal("template report must be marked degraded")
	}
	if !strings.HasPrefix(out.Text, "You have 3 tabs open") {
		t.Errorf("text = %q, want the deterministic template", out.Text)
	}
	if !strings.Contains(out.Text, "279.99") {
		t.Errorf("text = %q, template should still mention the spotted price", out.Text)
	}
}

func TestCompareOutcome(t *testing.T) {
	stub := &llmtest.Stub{
		Rules:   []llmtest.Rule{{Contains: "Tabs under comparison", Response: "The Dell lasts longer on battery; pick the Dell."}},
		Default: "A laptop product page.",
	}
	o := newTestOrchestrator(stub, nil)

	plan := intent.Plan{Mode: intent.ModeMulti, NeedsClassification: true, NeedsSummarization: true}
	tabs := []tab.Tab{
		{ID: 1, Title: "Dell XPS 13 laptop", URL: "https://shop.example.com/dell-xps", Text: "The Dell XPS 13 laptop offers nineteen hours of battery life."},
		{ID: 2, Title: "MacBook Air laptop", URL: "https://shop.example.com/macbook-air", Text: "The MacBook Air laptop is fanless and quiet under load."},
	}
	out := o.fullPipeline(context.Background(), plan, tab.Query{Text: "compare these laptops"}, tabs)

	if out.Mode != intent.ModeMulti {
		t.Fatalf("mode = %q, want multi", out.Mode)
	}
	if !strings.Contains(out.Text, "Dell") {
		t.Errorf("text = %q, want the comparison verdict", out.Text)
	}
	// Two summaries plus the comparison call.
	if stub.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", stub.CallCount())
	}
}

func TestCompareDegradesToSummaryList(t *testing.T) {
	stub := &llmtest.Stub{Hang: true}
	o := newTestOrchestrator(stub, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	plan := intent.Plan{Mode: intent.ModeMulti, NeedsSummarization: true}
	tabs := []tab.Tab{
		{ID: 1, Title: "Dell XPS 13", URL: "https://a.example.com", Text: "The Dell XPS 13 laptop offers nineteen hours of battery life."},
		{ID: 2, Title: "MacBook Air", URL: "https://b.example.com", Text: "The MacBook Air laptop is fanless and quiet under load."},
	}
	out := o.fullPipeline(ctx, plan, tab.Query{Text: "compare these laptops"}, tabs)

	if !out.Degraded {
		t.Fatal("summary-list fallback must be marked degraded")
	}
	// Fallback summaries are the first sentence of each tab.
	if !strings.Contains(out.Text, "Dell XPS 13") || !strings.Contains(out.Text, "MacBook Air") {
		t.Errorf("text = %q, want both tabs listed", out.Text)
	}
}

func TestCleanupSuggestsDuplicates(t *testing.T) {
	stub := &llmtest.Stub{}
	o := newTestOrchestrator(stub, nil)

	plan := intent.Plan{Mode: intent.ModeCleanup, NeedsClassification: true}
	tabs := []tab.Tab{
		{ID: 1, Title: "Docs", URL: "https://docs.example.com/page?v=1", Text: "The same documentation page, first copy."},
		{ID: 2, Title: "Docs", URL: "https://docs.example.com/page?v=2", Text: "The same documentation page, second copy."},
		{ID: 3, Title: "Unrelated read", URL: "https://blog.example.com/post", Text: "A long read about something else entirely."},
	}
	out := o.fullPipeline(context.Background(), plan, tab.Query{Text: "clean up my tabs"}, tabs)

	if out.Mode != intent.ModeCleanup {
		t.Fatalf("mode = %q, want cleanup", out.Mode)
	}
	if len(out.CloseTabIDs) != 1 || out.CloseTabIDs[0] != 2 {
		t.Errorf("close ids = %v, want the later duplicate [2]", out.CloseTabIDs)
	}
	if !strings.Contains(out.Text, "duplicate") {
		t.Errorf("text = %q, want the duplicate called out", out.Text)
	}
	if stub.CallCount() != 0 {
		t.Errorf("cleanup made %d provider calls, want 0", stub.CallCount())
	}
}

func TestCleanupKeepsNamedTopic(t *testing.T) {
	o := newTestOrchestrator(&llmtest.Stub{}, nil)

	plan := intent.Plan{Mode: intent.ModeCleanup, NeedsClassification: true}
	tabs := []tab.Tab{
		{ID: 1, Title: "Best pasta recipes", URL: "https://cooking.example.com/pasta", Text: "Simple cooking techniques for weeknight pasta dinners."},
		{ID: 2, Title: "TypeScript handbook", URL: "https://www.typescriptlang.org/docs", Text: "The TypeScript handbook covers the type system in depth."},
	}
	out := o.fullPipeline(context.Background(), plan,
		tab.Query{Text: "close all tabs irrelevant to cooking"}, tabs)

	if len(out.CloseTabIDs) != 1 || out.CloseTabIDs[0] != 2 {
		t.Errorf("close ids = %v, want only the off-topic tab [2]", out.CloseTabIDs)
	}
	if !strings.Contains(out.Text, "cooking") {
		t.Errorf("text = %q, want the kept topic named", out.Text)
	}
}

func TestCleanupClosesNamedCategory(t *testing.T) {
	o := newTestOrchestrator(&llmtest.Stub{}, nil)

	plan := intent.Plan{Mode: intent.ModeCleanup, NeedsClassification: true}
	tabs := []tab.Tab{
		{ID: 1, Title: "Sony headphones", URL: "https://www.amazon.com/sony", Text: "Add to cart for $279.99 today."},
		{ID: 2, Title: "Quantum computing - Wikipedia", URL: "https://en.wikipedia.org/wiki/Quantum_computing", Text: "An article about quantum computation and its applications."},
	}
	out := o.fullPipeline(context.Background(), plan, tab.Query{Text: "close all shopping tabs"}, tabs)

	if len(out.CloseTabIDs) != 1 || out.CloseTabIDs[0] != 1 {
		t.Errorf("close ids = %v, want the shopping tab [1]", out.CloseTabIDs)
	}
}

func TestCleanupTidyWorkspace(t *testing.T) {
	o := newTestOrchestrator(&llmtest.Stub{}, nil)

	plan := intent.Plan{Mode: intent.ModeCleanup, NeedsClassification: true}
	tabs := []tab.Tab{
		{ID: 1, Title: "One thing", URL: "https://a.example.com", Text: "First topic, long enough to be a sentence."},
		{ID: 2, Title: "Another thing", URL: "https://b.example.com", Text: "Second topic, also long enough to count."},
	}
	out := o.fullPipeline(context.Background(), plan, tab.Query{Text: "clean up my tabs"}, tabs)

	if len(out.CloseTabIDs) != 0 {
		t.Errorf("close ids = %v, want none in a tidy workspace", out.CloseTabIDs)
	}
	if out.Text == "" {
		t.Error("tidy workspaces still get a reply")
	}
}

func TestCleanupTopic(t *testing.T) {
	cases := []struct {
		query string
		topic string
		ok    bool
	}{
		{"close all tabs irrelevant to cooking", "cooking", true},
		{"close everything not about golang", "golang", true},
		{"keep only the recipe tabs", "recipe", true},
		{"close everything except the docs tabs", "docs", true},
		{"clean up my tabs", "", false},
	}
	for _, c := range cases {
		topic, ok := cleanupTopic(c.query)
		if ok != c.ok || topic != c.topic {
			t.Errorf("cleanupTopic(%q) = %q/%v, want %q/%v", c.query, topic, ok, c.topic, c.ok)
		}
	}
}

func TestTabCountExact(t *testing.T) {
	stub := &llmtest.Stub{Default: "Looks like 3 tabs are open right now."}
	o := newTestOrchestrator(stub, nil)

	out := o.tabCount(context.Background(), workspaceTabs())

	if out.Text != "Looks like 3 tabs are open right now." {
		t.Errorf("text = %q, want the phrased count", out.Text)
	}
}

func TestTabCountRejectsWrongNumber(t *testing.T) {
	// The provider paraphrases away the digit; the template takes over.
	stub := &llmtest.Stub{Default: "You have a few tabs open."}
	o := newTestOrchestrator(stub, nil)

	out := o.tabCount(context.Background(), workspaceTabs())

	if !strings.HasPrefix(out.Text, "You have 3 tabs open") {
		t.Errorf("text = %q, want the exact-count template", out.Text)
	}
}

func TestSummarizeAllCoversEveryTab(t *testing.T) {
	stub := &llmtest.Stub{Default: "One line about the page."}
	o := newTestOrchestrator(stub, nil)

	tabs := workspaceTabs()
	summaries, degraded := o.summarizeAll(context.Background(), tabs)

	if degraded {
		t.Fatal("no failures, so not degraded")
	}
	for _, tb := range tabs {
		if summaries[tb.ID] != "One line about the page." {
			t.Errorf("summary for tab %d = %q", tb.ID, summaries[tb.ID])
		}
	}
}

func TestSummarizeAllFallsBackPerTab(t *testing.T) {
	stub := &llmtest.Stub{Err: errors.New("rate limited")}
	o := newTestOrchestrator(stub, nil)

	tabs := workspaceTabs()
	summaries, degraded := o.summarizeAll(context.Background(), tabs)

	if !degraded {
		t.Fatal("provider failures must mark the batch degraded")
	}
	// Fallback is the first sentence of each tab's text.
	if !strings.HasPrefix(summaries[2], "Quantum computing exploits") {
		t.Errorf("summary for tab 2 = %q, want its first sentence", summaries[2])
	}
	if len(summaries) != len(tabs) {
		t.Errorf("got %d summaries for %d tabs", len(summaries), len(tabs))
	}
}
