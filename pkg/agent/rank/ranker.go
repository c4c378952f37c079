// Package rank orders tabs by relevance to a query. The score is a
// token-overlap base plus a handful of deterministic boosts; no model
// call is involved, so ranking is cheap enough to run on every request.
package rank

import (
	"sort"
	"strings"

	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/agent/token"
)

// ScoredTab pairs a tab with its relevance score.
type ScoredTab struct {
	Tab   tab.Tab
	Score float64
}

// Config holds the scoring constants. The defaults are tuned against
// the classifier test corpus; treat them as configuration, not physics.
type Config struct {
	// SnippetLen is how many leading runes of tab text join the token
	// pool alongside title and URL.
	SnippetLen int

	// TitleWordBoost is added once per query word (longer than 3 runes)
	// found verbatim in the lowercased title.
	TitleWordBoost float64

	// DomainBoost is added when a query token names a label of the tab's
	// hostname. A matching site is the strongest relevance signal we
	// have short of an exact title hit.
	DomainBoost float64

	// SERPBoost is added for search-engine result pages when the query
	// reads factual (who/what/when/where). A results page usually
	// carries the answer snippet even when no open tab does.
	SERPBoost float64
}

// DefaultConfig returns the scoring constants used in production.
func DefaultConfig() Config {
	return Config{
		SnippetLen:     2000,
		TitleWordBoost: 3.0,
		DomainBoost:    10.0,
		SERPBoost:      2.0,
	}
}

var searchHosts = []string{"google.", "bing.", "duckduckgo.", "search.yahoo."}

var factualWords = map[string]struct{}{
	"who": {}, "what": {}, "when": {}, "where": {},
}

// genericLabels never count as a domain match; "com" in a query is not
// someone asking for a .com site.
var genericLabels = map[string]struct{}{
	"www": {}, "com": {}, "org": {}, "net": {}, "co": {}, "io": {}, "en": {},
}

// Rank scores every tab against the query and returns the topK best in
// descending order. Ties keep input order. For non-empty input the
// result is never empty: when nothing scores above zero the first
// min(topK, len(tabs)) tabs come back with zero scores so the caller
// always has a candidate to answer from.
func Rank(query string, tabs []tab.Tab, topK int, cfg Config) []ScoredTab {
	if len(tabs) == 0 {
		return nil
	}
	if topK <= 0 || topK > len(tabs) {
		topK = len(tabs)
	}

	queryTokens := token.Tokenize(query)
	querySet := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		querySet[t] = struct{}{}
	}
	factual := isFactual(querySet)

	scored := make([]ScoredTab, len(tabs))
	for i, tb := range tabs {
		scored[i] = ScoredTab{Tab: tb, Score: scoreTab(queryTokens, querySet, factual, tb, cfg)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored[:topK]
}

func scoreTab(queryTokens []string, querySet map[string]struct{}, factual bool, tb tab.Tab, cfg Config) float64 {
	pool := tb.Title + " " + tb.URL + " " + tb.Preview(cfg.SnippetLen)
	score := token.OverlapScore(queryTokens, token.Tokenize(pool))

	titleLower := strings.ToLower(tb.Title)
	for _, w := range queryTokens {
		if len(w) > 3 && strings.Contains(titleLower, w) {
			score += cfg.TitleWordBoost
		}
	}

	host := tb.Host()
	for _, label := range strings.Split(host, ".") {
		if _, generic := genericLabels[label]; generic || label == "" {
			continue
		}
		if _, ok := querySet[label]; ok {
			score += cfg.DomainBoost
			break
		}
	}

	if factual && isSearchHost(host) {
		score += cfg.SERPBoost
	}
	return score
}

func isFactual(querySet map[string]struct{}) bool {
	for w := range factualWords {
		if _, ok := querySet[w]; ok {
			return true
		}
	}
	return false
}

func isSearchHost(host string) bool {
	for _, h := range searchHosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// Best returns the highest-scoring tab, or false when tabs is empty.
func Best(query string, tabs []tab.Tab, cfg Config) (ScoredTab, bool) {
	ranked := Rank(query, tabs, 1, cfg)
	if len(ranked) == 0 {
		return ScoredTab{}, false
	}
	return ranked[0], true
}
