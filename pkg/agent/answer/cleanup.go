package answer

import (
	"fmt"
	"sort"
	"strings"

	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/agent/token"
	"tabsensei-be/pkg/agent/workspace"
)

const cleanupPreviewLen = 500

// keepMarkers introduce a topic the user wants to KEEP; everything
// off that topic is fair game to close.
var keepMarkers = []string{
	"irrelevant to", "not about", "not related to", "unrelated to",
	"except", "other than", "keep only",
}

// cleanupOutcome suggests tabs to close: duplicate extras always,
// off-topic tabs when the request names a topic to keep, a whole
// category when the request names one. Suggestions only — closing is
// the caller's decision.
func (o *Orchestrator) cleanupOutcome(q tab.Query, tabs []tab.Tab, groups []workspace.DuplicateGroup, categories []workspace.Category) Outcome {
	closeIdx := make(map[int]bool)
	var reasons []string

	dup := 0
	for _, g := range groups {
		for _, i := range g.Extras() {
			if !closeIdx[i] {
				closeIdx[i] = true
				dup++
			}
		}
	}
	if dup > 0 {
		reasons = append(reasons, fmt.Sprintf("%d duplicate %s", dup, pluralTab(dup)))
	}

	if topic, ok := cleanupTopic(q.Text); ok {
		n := 0
		for _, i := range offTopicTabs(topic, tabs) {
			if !closeIdx[i] {
				closeIdx[i] = true
				n++
			}
		}
		if n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d %s not about %s", n, pluralTab(n), topic))
		}
	} else if cat, idxs := categoryMatches(q.Text, categories); len(idxs) > 0 {
		n := 0
		for _, i := range idxs {
			if !closeIdx[i] {
				closeIdx[i] = true
				n++
			}
		}
		if n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d %s %s", n, cat, pluralTab(n)))
		}
	}

	ws := workspaceSummaryMap(tabs, categories, groups, nil)
	if len(closeIdx) == 0 {
		return Outcome{
			Text:             "Your workspace looks tidy already — no duplicates or obviously unneeded tabs.",
			Mode:             intent.ModeCleanup,
			WorkspaceSummary: ws,
		}
	}

	ids := make([]int, 0, len(closeIdx))
	var names []string
	for i := range tabs {
		if !closeIdx[i] {
			continue
		}
		ids = append(ids, tabs[i].ID)
		if len(names) < 5 {
			names = append(names, fmt.Sprintf("%q", tabs[i].Title))
		}
	}
	sort.Ints(ids)

	list := strings.Join(names, ", ")
	if extra := len(ids) - len(names); extra > 0 {
		list += fmt.Sprintf(" and %d more", extra)
	}
	return Outcome{
		Text:             fmt.Sprintf("I'd close %s: %s. Want me to mark them?", joinNatural(reasons), list),
		Mode:             intent.ModeCleanup,
		CloseTabIDs:      ids,
		WorkspaceSummary: ws,
	}
}

// cleanupTopic pulls the keep-topic out of requests like "close all
// tabs irrelevant to cooking" or "keep only the recipe tabs".
func cleanupTopic(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, m := range keepMarkers {
		i := strings.Index(lower, m)
		if i < 0 {
			continue
		}
		topic := strings.Trim(lower[i+len(m):], " .!?,")
		topic = strings.TrimPrefix(topic, "the ")
		topic = strings.TrimSuffix(topic, " tabs")
		topic = strings.TrimSuffix(topic, " ones")
		topic = strings.TrimSpace(topic)
		if topic != "" {
			return topic, true
		}
	}
	return "", false
}

// offTopicTabs returns indices of tabs with zero token overlap with
// the topic.
func offTopicTabs(topic string, tabs []tab.Tab) []int {
	want := token.Tokenize(topic)
	if len(want) == 0 {
		return nil
	}
	var out []int
	for i, t := range tabs {
		have := token.Tokenize(t.Title + " " + t.URL + " " + t.Preview(cleanupPreviewLen))
		if token.OverlapScore(want, have) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// categoryMatches maps "close all shopping tabs" onto the tabs
// classified under that category.
func categoryMatches(query string, categories []workspace.Category) (workspace.Category, []int) {
	lower := strings.ToLower(query)
	for _, c := range []workspace.Category{
		workspace.CategoryShopping, workspace.CategoryEntertainment,
		workspace.CategoryResearch, workspace.CategoryWork,
	} {
		if !strings.Contains(lower, string(c)) {
			continue
		}
		var idxs []int
		for i, cat := range categories {
			if cat == c {
				idxs = append(idxs, i)
			}
		}
		return c, idxs
	}
	return workspace.CategoryUnknown, nil
}
