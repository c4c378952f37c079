// Package workspace inspects the tab set as a whole: near-duplicate
// grouping and coarse per-tab categories. Both feed the cleanup and
// analysis paths.
package workspace

import (
	"strings"

	"tabsensei-be/pkg/agent/tab"
)

// minDuplicateTitleLen guards title-based grouping: short generic
// titles ("Home", "Login") collide all over the web and must not merge.
const minDuplicateTitleLen = 10

// DuplicateGroup is a set of tab indices considered the same page. The
// first index is the anchor (first seen); the rest are candidates to
// close.
type DuplicateGroup struct {
	Indices []int `json:"indices"`
}

// Anchor returns the index of the first-seen tab in the group.
func (g DuplicateGroup) Anchor() int {
	return g.Indices[0]
}

// Extras returns every index except the anchor.
func (g DuplicateGroup) Extras() []int {
	return g.Indices[1:]
}

// DetectDuplicates groups tabs that are the same page: equal URLs once
// the query string is stripped, or equal lowercased titles longer than
// minDuplicateTitleLen. Pairwise comparison; n stays small (a browser
// window, not a crawl). Every index lands in at most one group and
// groups with a single member are not reported.
func DetectDuplicates(tabs []tab.Tab) []DuplicateGroup {
	if len(tabs) < 2 {
		return nil
	}
	assigned := make([]bool, len(tabs))
	var groups []DuplicateGroup

	for i := 0; i < len(tabs); i++ {
		if assigned[i] {
			continue
		}
		group := DuplicateGroup{Indices: []int{i}}
		for j := i + 1; j < len(tabs); j++ {
			if assigned[j] {
				continue
			}
			if sameTab(tabs[i], tabs[j]) {
				group.Indices = append(group.Indices, j)
				assigned[j] = true
			}
		}
		if len(group.Indices) > 1 {
			assigned[i] = true
			groups = append(groups, group)
		}
	}
	return groups
}

func sameTab(a, b tab.Tab) bool {
	if ua, ub := a.CanonicalURL(), b.CanonicalURL(); ua != "" && ua == ub {
		return true
	}
	ta := strings.ToLower(strings.TrimSpace(a.Title))
	tb := strings.ToLower(strings.TrimSpace(b.Title))
	return ta != "" && ta == tb && len(ta) > minDuplicateTitleLen
}
