package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/llm/llmtest"
)

func fastPathTabs() []tab.Tab {
	return []tab.Tab{
		deppTab(1),
		{ID: 2, Title: "Weather forecast", URL: "https://weather.example.com", Text: "Sunny skies expected through the weekend across the region."},
	}
}

func TestFastPathUsesBestTab(t *testing.T) {
	stub := &llmtest.Stub{Default: "Johnny Depp was born on June 9, 1963."}
	o := newTestOrchestrator(stub, nil)

	out := o.fastPath(context.Background(), tab.Query{Text: "when was johnny depp born?"}, fastPathTabs())

	if out.Text != "Johnny Depp was born on June 9, 1963." {
		t.Fatalf("text = %q", out.Text)
	}
	if out.ChosenTabID == nil || *out.ChosenTabID != 1 {
		t.Errorf("chosen tab = %v, want 1", out.ChosenTabID)
	}
	if out.Degraded {
		t.Error("a served answer must not be marked degraded")
	}
	if stub.CallCount() != 1 {
		t.Errorf("calls = %d, want exactly one", stub.CallCount())
	}
	if !strings.Contains(stub.LastCall(), "Johnny Depp - Wikipedia") {
		t.Errorf("prompt should carry the chosen tab's content, got %q", stub.LastCall())
	}
}

func TestFastPathMergesWhenRankingInconclusive(t *testing.T) {
	stub := &llmtest.Stub{Default: "Nothing in the tabs covers that."}
	o := newTestOrchestrator(stub, nil)

	out := o.fastPath(context.Background(), tab.Query{Text: "zzz qqq"}, fastPathTabs())

	if out.ChosenTabID != nil {
		t.Errorf("chosen tab = %v, want nil when no tab scored", out.ChosenTabID)
	}
	if !strings.Contains(stub.LastCall(), "--- Tab 1:") || !strings.Contains(stub.LastCall(), "--- Tab 2:") {
		t.Errorf("prompt should merge all tabs, got %q", stub.LastCall())
	}
}

func TestFastPathFallsBackToExtraction(t *testing.T) {
	stub := &llmtest.Stub{Err: errors.New("502 bad gateway")}
	o := newTestOrchestrator(stub, nil)

	out := o.fastPath(context.Background(), tab.Query{Text: "when was johnny depp born?"}, fastPathTabs())

	if !out.Degraded {
		t.Fatal("extraction answers must be marked degraded")
	}
	if !strings.Contains(out.Text, "1963") {
		t.Errorf("text = %q, want the birth year pulled from the tab text", out.Text)
	}
	if out.ChosenTabID == nil {
		t.Error("extraction should report which tab the answer came from")
	}
}

func TestFastPathSurvivesHangingProvider(t *testing.T) {
	stub := &llmtest.Stub{Hang: true}
	o := newTestOrchestrator(stub, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	out := o.fastPath(ctx, tab.Query{Text: "when was johnny depp born?"}, fastPathTabs())

	if out.Text == "" {
		t.Fatal("a hanging provider must still produce a reply")
	}
	if !out.Degraded {
		t.Error("timeout path must be marked degraded")
	}
	if !strings.Contains(out.Text, "1963") {
		t.Errorf("text = %q, want the locally extracted answer", out.Text)
	}
}

func TestFastPathNotFound(t *testing.T) {
	stub := &llmtest.Stub{Err: errors.New("down")}
	o := newTestOrchestrator(stub, nil)

	tabs := []tab.Tab{
		{ID: 1, Title: "Blank", URL: "https://example.com/a", Text: "short"},
	}
	out := o.fastPath(context.Background(), tab.Query{Text: "when was johnny depp born?"}, tabs)

	if out.Text != notFoundMessage {
		t.Errorf("text = %q, want the not-found message", out.Text)
	}
	if !out.Degraded {
		t.Error("not-found fallback is a degraded outcome")
	}
}

func TestChronologyVerificationFixesMissingYear(t *testing.T) {
	stub := &llmtest.Stub{Rules: []llmtest.Rule{
		{Contains: "Candidate dates", Response: "He was born on June 9, 1963."},
		{Contains: "Tab content", Response: "He was born in June."},
	}}
	o := newTestOrchestrator(stub, nil)

	out := o.fastPath(context.Background(), tab.Query{Text: "when was johnny depp born?"}, fastPathTabs())

	if !strings.Contains(out.Text, "1963") {
		t.Fatalf("text = %q, want a year after verification", out.Text)
	}
	if stub.CallCount() != 2 {
		t.Errorf("calls = %d, want QA + verification", stub.CallCount())
	}
	if !strings.Contains(stub.LastCall(), "June 9, 1963") {
		t.Errorf("verification prompt should list the extracted candidates, got %q", stub.LastCall())
	}
}

func TestChronologyFallsBackToEarliestYear(t *testing.T) {
	stub := &llmtest.Stub{Rules: []llmtest.Rule{
		{Contains: "Candidate dates", Response: "I cannot tell."},
		{Contains: "Tab content", Response: "He was born in June."},
	}}
	o := newTestOrchestrator(stub, nil)

	out := o.fastPath(context.Background(), tab.Query{Text: "when was johnny depp born?"}, fastPathTabs())

	// Tab text mentions 1963 and 1987; origin questions take the earliest.
	if !strings.Contains(out.Text, "1963") {
		t.Fatalf("text = %q, want the earliest candidate year", out.Text)
	}
	if strings.Contains(out.Text, "1987") {
		t.Errorf("text = %q, must not pick the later year", out.Text)
	}
	if !out.Degraded {
		t.Error("the deterministic year pick is a degraded outcome")
	}
}

func TestChronologySkipsVerificationWhenYearPresent(t *testing.T) {
	stub := &llmtest.Stub{Default: "Johnny Depp was born in 1963."}
	o := newTestOrchestrator(stub, nil)

	o.fastPath(context.Background(), tab.Query{Text: "when was johnny depp born?"}, fastPathTabs())

	if stub.CallCount() != 1 {
		t.Errorf("calls = %d, want no verification when the answer has a year", stub.CallCount())
	}
}
