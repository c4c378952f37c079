package answer

import (
	"context"
	"time"

	"tabsensei-be/pkg/agent/extract"
	"tabsensei-be/pkg/agent/intent"
	"tabsensei-be/pkg/agent/rank"
	"tabsensei-be/pkg/agent/tab"
)

// fastPath answers a narrow factual question with one bounded call:
// no classification, no summaries, no persistence.
func (o *Orchestrator) fastPath(ctx context.Context, q tab.Query, tabs []tab.Tab) Outcome {
	out := o.answerQuestion(ctx, q, tabs)
	out.Mode = intent.ModeSingle
	return out
}

// answerQuestion ranks the workspace, asks the provider against the
// best tab's content (or merged content when nothing stands out), and
// degrades to local sentence extraction when the provider fails.
func (o *Orchestrator) answerQuestion(ctx context.Context, q tab.Query, tabs []tab.Tab) Outcome {
	ranked := rank.Rank(q.Text, tabs, o.cfg.PreRankLimit, o.cfg.Rank)
	if len(ranked) == 0 {
		return Outcome{Text: notFoundMessage}
	}
	best := ranked[0]

	var (
		prompt string
		budget time.Duration
		chosen *int
	)
	if best.Score > 0 {
		prompt = qaPrompt(q.Text, q.RecentHistory(), singleTabContent(best.Tab))
		budget = SingleQATimeout
		id := best.Tab.ID
		chosen = &id
	} else {
		prompt = qaPrompt(q.Text, q.RecentHistory(), mergedTabContent(rankedTabs(ranked)))
		budget = MultiQATimeout
	}

	text, err := o.complete(ctx, budget, qaSystem, prompt)
	if err != nil {
		o.logger.Printf("[WARN] answer degraded to extraction: %v", err)
		return o.extractionAnswer(q, ranked)
	}

	out := Outcome{Text: text, ChosenTabID: chosen}
	if extract.IsChronological(q.Text) {
		out = o.verifyChronology(ctx, q, ranked, out)
	}
	return out
}

// extractionAnswer is the middle rung of the degradation ladder:
// pull the most relevant sentences straight out of the tab text.
func (o *Orchestrator) extractionAnswer(q tab.Query, ranked []rank.ScoredTab) Outcome {
	for _, st := range ranked {
		if ans, ok := extract.Answer(q.Text, st.Tab.Text); ok {
			id := st.Tab.ID
			return Outcome{Text: ans, ChosenTabID: &id, Degraded: true}
		}
	}
	return Outcome{Text: notFoundMessage, Degraded: true}
}

func rankedTabs(ranked []rank.ScoredTab) []tab.Tab {
	out := make([]tab.Tab, 0, len(ranked))
	for _, st := range ranked {
		out = append(out, st.Tab)
	}
	return out
}
