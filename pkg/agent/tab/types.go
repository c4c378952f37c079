package tab

import (
	"strings"
)

// MaxSnapshotTextLen bounds the visible-text portion of a tab snapshot.
// Anything beyond this is noise for ranking and answering and only
// inflates prompts.
const MaxSnapshotTextLen = 8000

// Tab is one browser page snapshot supplied by the caller. IDs are
// caller-assigned and unique within a single request.
type Tab struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Turn is one prior exchange in the conversation, most recent last.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Query is the read-only input for one request.
type Query struct {
	Text    string `json:"text"`
	History []Turn `json:"history,omitempty"`
}

// HistoryWindow is how many recent turns the engine consumes.
const HistoryWindow = 6

// RecentHistory returns the last HistoryWindow turns, oldest first.
func (q Query) RecentHistory() []Turn {
	if len(q.History) <= HistoryWindow {
		return q.History
	}
	return q.History[len(q.History)-HistoryWindow:]
}

// LastAssistantTurn returns the most recent assistant turn, or an empty
// Turn when there is none.
func (q Query) LastAssistantTurn() Turn {
	for i := len(q.History) - 1; i >= 0; i-- {
		if q.History[i].Role == "assistant" {
			return q.History[i]
		}
	}
	return Turn{}
}

// Normalize collapses runs of whitespace in the tab text and caps it at
// MaxSnapshotTextLen. Title and URL are trimmed. Callers send raw DOM
// text; everything downstream assumes this normal form.
func (t Tab) Normalize() Tab {
	t.Title = strings.TrimSpace(t.Title)
	t.URL = strings.TrimSpace(t.URL)
	t.Text = NormalizeText(t.Text, MaxSnapshotTextLen)
	return t
}

// NormalizeText collapses whitespace runs into single spaces and
// truncates to maxLen runes. maxLen <= 0 means no cap.
func NormalizeText(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return s
}

// Host returns the lowercased hostname of the tab URL without a port,
// or "" when the URL is unparseable. Kept dependency-free on purpose:
// snapshots often carry half-broken URLs and url.Parse rejects too much.
func (t Tab) Host() string {
	u := strings.ToLower(strings.TrimSpace(t.URL))
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(u, sep); i >= 0 {
			u = u[:i]
		}
	}
	if i := strings.Index(u, "@"); i >= 0 {
		u = u[i+1:]
	}
	if i := strings.Index(u, ":"); i >= 0 {
		u = u[:i]
	}
	return u
}

// CanonicalURL strips the query string and fragment, for duplicate
// detection. "https://a.com/x?ref=1" and "https://a.com/x?ref=2" are
// the same page.
func (t Tab) CanonicalURL() string {
	u := strings.TrimSpace(t.URL)
	if i := strings.Index(u, "?"); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "#"); i >= 0 {
		u = u[:i]
	}
	return u
}

// Preview returns the first n runes of the tab text.
func (t Tab) Preview(n int) string {
	runes := []rune(t.Text)
	if len(runes) <= n {
		return t.Text
	}
	return string(runes[:n])
}
