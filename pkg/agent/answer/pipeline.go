package answer

import (
	"context"
	"fmt"
	"strings"

	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/rank"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/agent/workspace"
)

// fullPipeline is the workspace-wide path: classify, dedupe, read
// prices, summarize in parallel, assemble per mode. Stages the plan
// didn't ask for are skipped.
func (o *Orchestrator) fullPipeline(ctx context.Context, plan intent.Plan, q tab.Query, tabs []tab.Tab) Outcome {
	var categories []workspace.Category
	if plan.NeedsClassification {
		categories = workspace.ClassifyAll(tabs)
	}
	groups := workspace.DetectDuplicates(tabs)

	var prices []tabPrice
	if plan.NeedsPriceExtraction {
		prices = extractPrices(tabs)
		o.recordWatchedPrices(ctx, tabs)
	}

	var (
		summaries map[int]string
		degraded  bool
	)
	if plan.NeedsSummarization {
		summaries, degraded = o.summarizeAll(ctx, tabs)
	}

	switch plan.Mode {
	case intent.ModeCleanup:
		return o.cleanupOutcome(q, tabs, groups, categories)
	case intent.ModeMulti:
		return o.compareOutcome(ctx, plan, q, tabs, groups, categories, summaries, prices, degraded)
	case intent.ModeSingle:
		out := o.answerQuestion(ctx, q, tabs)
		out.Mode = intent.ModeSingle
		return out
	default:
		return o.analysisOutcome(ctx, plan, q, tabs, groups, categories, summaries, prices, degraded)
	}
}

// analysisOutcome builds the workspace report. The digest with the
// real numbers is computed in code; the provider only phrases it, and
// a plain template stands in when the provider can't.
func (o *Orchestrator) analysisOutcome(ctx context.Context, plan intent.Plan, q tab.Query, tabs []tab.Tab, groups []workspace.DuplicateGroup, categories []workspace.Category, summaries map[int]string, prices []tabPrice, degraded bool) Outcome {
	text, err := o.complete(ctx, FormatTimeout, formatSystem, workspaceDigest(tabs, categories, groups, summaries, prices))
	if err != nil {
		o.logger.Printf("[WARN] workspace report degraded to template: %v", err)
		text = templateReport(tabs, categories, groups, prices)
		degraded = true
	}

	out := Outcome{
		Text:             text,
		Mode:             intent.ModeAnalysis,
		WorkspaceSummary: workspaceSummaryMap(tabs, categories, groups, prices),
		ShouldAskCleanup: plan.ShouldAskCleanup || duplicateExtraCount(groups) > 0,
		Degraded:         degraded,
	}
	if len(prices) > 0 {
		out.PriceInfo = priceInfoMap(prices)
	}
	return out
}

// compareOutcome answers "which is better" style requests from the
// summaries of the highest-ranked tabs.
func (o *Orchestrator) compareOutcome(ctx context.Context, plan intent.Plan, q tab.Query, tabs []tab.Tab, groups []workspace.DuplicateGroup, categories []workspace.Category, summaries map[int]string, prices []tabPrice, degraded bool) Outcome {
	ranked := rank.Rank(q.Text, tabs, o.cfg.CompareTabLimit, o.cfg.Rank)

	text, err := o.complete(ctx, MultiQATimeout, compareSystem, comparePrompt(q.Text, ranked, summaries))
	if err != nil {
		o.logger.Printf("[WARN] comparison degraded to summary list: %v", err)
		var b strings.Builder
		b.WriteString("Here's what each tab says.")
		for _, st := range ranked {
			fmt.Fprintf(&b, " %s: %s", st.Tab.Title, summaries[st.Tab.ID])
		}
		text = b.String()
		degraded = true
	}

	return Outcome{
		Text:             text,
		Mode:             intent.ModeMulti,
		WorkspaceSummary: workspaceSummaryMap(tabs, categories, groups, prices),
		ShouldAskCleanup: plan.ShouldAskCleanup,
		Degraded:         degraded,
	}
}

func workspaceSummaryMap(tabs []tab.Tab, categories []workspace.Category, groups []workspace.DuplicateGroup, prices []tabPrice) map[string]interface{} {
	ws := map[string]interface{}{
		"total_tabs":     len(tabs),
		"duplicate_tabs": duplicateExtraCount(groups),
	}
	if len(categories) > 0 {
		ws["categories"] = workspace.CountByCategory(categories)
	}
	if len(prices) > 0 {
		ws["priced_tabs"] = len(prices)
	}
	return ws
}

func duplicateExtraCount(groups []workspace.DuplicateGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Extras())
	}
	return n
}

func duplicateExtraIDs(tabs []tab.Tab, groups []workspace.DuplicateGroup) []int {
	var ids []int
	for _, g := range groups {
		for _, i := range g.Extras() {
			ids = append(ids, tabs[i].ID)
		}
	}
	return ids
}

// workspaceDigest is the structured input handed to the formatting
// call. Every number in it is computed here; the provider must not
// invent any.
func workspaceDigest(tabs []tab.Tab, categories []workspace.Category, groups []workspace.DuplicateGroup, summaries map[int]string, prices []tabPrice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workspace: %d open %s.\n", len(tabs), pluralTab(len(tabs)))
	if len(categories) > 0 {
		if line := categoryLine(workspace.CountByCategory(categories)); line != "" {
			b.WriteString("Categories: ")
			b.WriteString(line)
			b.WriteString(".\n")
		}
	}
	if n := duplicateExtraCount(groups); n > 0 {
		fmt.Fprintf(&b, "Duplicates: %d %s could be closed.\n", n, pluralTab(n))
	}
	for _, p := range prices {
		fmt.Fprintf(&b, "Price spotted: %s at %s%.2f.\n", p.product, currencyMark(p.price.Currency), p.price.Amount)
	}
	if len(summaries) > 0 {
		b.WriteString("Per-tab notes:\n")
		for _, t := range tabs {
			if s, ok := summaries[t.ID]; ok && s != "" {
				fmt.Fprintf(&b, "- %s: %s\n", t.Title, s)
			}
		}
	}
	return b.String()
}

// templateReport is the no-provider workspace report.
func templateReport(tabs []tab.Tab, categories []workspace.Category, groups []workspace.DuplicateGroup, prices []tabPrice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s open", len(tabs), pluralTab(len(tabs)))
	if len(categories) > 0 {
		if line := categoryLine(workspace.CountByCategory(categories)); line != "" {
			b.WriteString(": ")
			b.WriteString(line)
		}
	}
	b.WriteString(".")
	if n := duplicateExtraCount(groups); n == 1 {
		b.WriteString(" One of them looks like a duplicate you could close.")
	} else if n > 1 {
		fmt.Fprintf(&b, " %d of them look like duplicates you could close.", n)
	}
	for _, p := range prices {
		fmt.Fprintf(&b, " %s is listed at %s%.2f.", p.product, currencyMark(p.price.Currency), p.price.Amount)
	}
	return b.String()
}

var categoryOrder = []workspace.Category{
	workspace.CategoryShopping,
	workspace.CategoryEntertainment,
	workspace.CategoryResearch,
	workspace.CategoryWork,
	workspace.CategoryUnknown,
}

func categoryLine(counts map[string]int) string {
	var parts []string
	for _, c := range categoryOrder {
		if n := counts[string(c)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	return strings.Join(parts, ", ")
}

func pluralTab(n int) string {
	if n == 1 {
		return "tab"
	}
	return "tabs"
}
