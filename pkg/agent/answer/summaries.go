package answer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tabsensei-be/pkg/agent/extract"
	"tabsensei-be/pkg/agent/tab"
)

// summarizeAll produces a one-sentence summary per tab, keyed by tab
// ID, with at most cfg.BatchSize provider calls in flight. Per-tab
// failures degrade to the tab's own first sentence, then to a title
// template, so the map always covers every input tab.
func (o *Orchestrator) summarizeAll(ctx context.Context, tabs []tab.Tab) (map[int]string, bool) {
	results := make([]string, len(tabs))
	failed := make([]bool, len(tabs))

	var g errgroup.Group
	g.SetLimit(o.cfg.BatchSize)
	for i := range tabs {
		i := i
		g.Go(func() error {
			text, err := o.complete(ctx, SummaryTimeout, summarySystem, summaryPrompt(tabs[i]))
			if err != nil {
				o.logger.Printf("[WARN] summary degraded for tab %d: %v", tabs[i].ID, err)
				failed[i] = true
				return nil
			}
			results[i] = text
			return nil
		})
	}
	_ = g.Wait() // workers swallow their own errors

	out := make(map[int]string, len(tabs))
	degraded := false
	for i, t := range tabs {
		if failed[i] {
			out[t.ID] = fallbackSummary(t)
			degraded = true
			continue
		}
		out[t.ID] = results[i]
	}
	return out, degraded
}

// fallbackSummary is the no-provider rung: first decent sentence of
// the page, else a template built from the title.
func fallbackSummary(t tab.Tab) string {
	if ss := extract.Sentences(t.Text); len(ss) > 0 {
		return ss[0]
	}
	if t.Title != "" {
		return "A page titled \"" + t.Title + "\"."
	}
	return "A page with no readable content."
}
