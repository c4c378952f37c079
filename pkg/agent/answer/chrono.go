package answer

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"tabsensei-be/pkg/agent/extract"
	"tabsensei-be/pkg/agent/rank"
	"tabsensei-be/pkg/agent/tab"
)

// verifyChronology guards date questions. Providers routinely answer
// "he was born in June" with no year, or pick a film's release year
// over a birth year. When the draft lacks a four-digit year, one
// bounded verification call resolves it from candidates pulled out of
// the tab text; if that call also fails, the earliest candidate year
// is appended, which is what origin questions ("born", "first",
// "founded") want.
func (o *Orchestrator) verifyChronology(ctx context.Context, q tab.Query, ranked []rank.ScoredTab, draft Outcome) Outcome {
	if _, ok := extract.FirstYear(draft.Text); ok {
		return draft
	}
	candidates := chronoCandidates(ranked)
	if len(candidates) == 0 {
		return draft
	}

	text, err := o.complete(ctx, VerifyTimeout, verifySystem, verifyPrompt(q.Text, candidates))
	if err == nil {
		if _, ok := extract.FirstYear(text); ok {
			draft.Text = text
			return draft
		}
	} else {
		o.logger.Printf("[WARN] chronology verification unavailable: %v", err)
	}

	years := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if y, ok := extract.FirstYear(c); ok {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return draft
	}
	sort.Ints(years)
	draft.Text = fmt.Sprintf("%s The year was %d.", draft.Text, years[0])
	draft.Degraded = true
	return draft
}

// chronoCandidates collects date strings from the ranked tabs, most
// relevant first, capped to keep the verification prompt small.
func chronoCandidates(ranked []rank.ScoredTab) []string {
	const maxCandidates = 8
	var out []string
	seen := make(map[string]bool)
	add := func(s, title string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, fmt.Sprintf("%s (from %q)", s, title))
	}
	for _, st := range ranked {
		if len(out) >= maxCandidates {
			break
		}
		if d, ok := extract.BirthDate(st.Tab.Text); ok {
			add(d, st.Tab.Title)
		}
		if d, ok := extract.Date(st.Tab.Text); ok {
			add(d, st.Tab.Title)
		}
		for _, y := range extract.Years(st.Tab.Text) {
			if len(out) >= maxCandidates {
				break
			}
			add(strconv.Itoa(y), st.Tab.Title)
		}
	}
	return out
}
