// Package reply normalizes engine outcomes into the boundary shape the
// browser extension consumes. Every field is always present, so the
// client never null-checks anything beyond chosen_tab_id and
// workspace_summary.
package reply

import (
	"strings"

	"tabsensei-be/pkg/agent/answer"
	"tabsensei-be/pkg/agent/intent"
)

// Reply is the wire shape of one assistant turn.
type Reply struct {
	Reply                string                   `json:"reply"`
	Mode                 string                   `json:"mode"`
	ChosenTabID          *int                     `json:"chosen_tab_id"`
	SuggestedCloseTabIDs []int                    `json:"suggested_close_tab_ids"`
	WorkspaceSummary     map[string]interface{}   `json:"workspace_summary"`
	Alerts               []map[string]interface{} `json:"alerts"`
	PriceInfo            map[string]interface{}   `json:"price_info"`
	ShouldAskCleanup     bool                     `json:"should_ask_cleanup"`
}

const fallbackText = "I wasn't able to put an answer together this time. Please try again."

// Assemble fills the contract: reply and mode are never empty, list and
// map fields are never nil (workspace_summary excepted, which stays
// null when no workspace pass ran).
func Assemble(out answer.Outcome) Reply {
	r := Reply{
		Reply:                strings.TrimSpace(out.Text),
		Mode:                 string(out.Mode),
		ChosenTabID:          out.ChosenTabID,
		SuggestedCloseTabIDs: out.CloseTabIDs,
		WorkspaceSummary:     out.WorkspaceSummary,
		Alerts:               out.Alerts,
		PriceInfo:            out.PriceInfo,
		ShouldAskCleanup:     out.ShouldAskCleanup,
	}
	if r.Reply == "" {
		r.Reply = fallbackText
	}
	if r.Mode == "" {
		r.Mode = string(intent.ModeAnalysis)
	}
	if r.SuggestedCloseTabIDs == nil {
		r.SuggestedCloseTabIDs = []int{}
	}
	if r.Alerts == nil {
		r.Alerts = []map[string]interface{}{}
	}
	if r.PriceInfo == nil {
		r.PriceInfo = map[string]interface{}{}
	}
	return r
}
