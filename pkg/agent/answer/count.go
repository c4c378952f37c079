package answer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/agent/workspace"
)

// tabCount answers "how many tabs do I have". The count is computed
// here; the provider only phrases it, and any phrasing that loses the
// exact number is thrown away in favor of the template.
func (o *Orchestrator) tabCount(ctx context.Context, tabs []tab.Tab) Outcome {
	categories := workspace.ClassifyAll(tabs)
	counts := workspace.CountByCategory(categories)

	degraded := false
	text, err := o.complete(ctx, CountTimeout, formatSystem, countDigest(tabs, counts))
	if err != nil || !strings.Contains(text, strconv.Itoa(len(tabs))) {
		if err != nil {
			o.logger.Printf("[WARN] count phrasing degraded to template: %v", err)
			degraded = true
		}
		text = countTemplate(tabs, counts)
	}

	return Outcome{
		Text:             text,
		Mode:             intent.ModeAnalysis,
		WorkspaceSummary: workspaceSummaryMap(tabs, categories, nil, nil),
		Degraded:         degraded,
	}
}

func countDigest(tabs []tab.Tab, counts map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The user asked how many tabs are open. Exact count: %d.", len(tabs))
	if line := categoryLine(counts); line != "" {
		fmt.Fprintf(&b, " Breakdown: %s.", line)
	}
	b.WriteString(" Restate the count exactly as given.")
	return b.String()
}

func countTemplate(tabs []tab.Tab, counts map[string]int) string {
	text := fmt.Sprintf("You have %d %s open", len(tabs), pluralTab(len(tabs)))
	if line := categoryLine(counts); line != "" {
		text += ": " + line
	}
	return text + "."
}
