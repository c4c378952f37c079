// Package extract is the no-model answer path: regex and
// sentence-scoring heuristics that pull dates, years and relevant
// sentences straight out of tab text. It is what the orchestrator falls
// back to when the completion service times out, errors, or returns
// something unusable.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tabsensei-be/pkg/agent/token"
)

const (
	// minSentenceLen filters out crumbs ("Read more.", nav labels).
	minSentenceLen = 20

	// year bounds for plausible biographical/chronological answers.
	minYear = 1900
	maxYear = 2100
)

var monthNames = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`

// "June 9, 1963" and "9 June 1963".
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(monthNames + `\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`\d{1,2}\s+` + monthNames + `\s+\d{4}`),
}

// "born June 9, 1963", "born on 9 June 1963", "(born 1963".
var bornPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)born\s+(?:on\s+)?(` + monthNames + `\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(?i)born\s+(?:on\s+)?(\d{1,2}\s+` + monthNames + `\s+\d{4})`),
	regexp.MustCompile(`(?i)born[^0-9]{0,20}(\d{4})`),
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|2[0-9]{3})\b`)

// Date returns the first month-name date in the text.
func Date(text string) (string, bool) {
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// BirthDate looks for an explicit "born ..." mention first and falls
// back to any date. Biography pages bury the birth date mid-sentence,
// so the targeted pattern goes first.
func BirthDate(text string) (string, bool) {
	for _, re := range bornPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return Date(text)
}

// Years lists every plausible 4-digit year in the text, in order of
// appearance, bounded to [1900, 2100].
func Years(text string) []int {
	var years []int
	for _, m := range yearPattern.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil || y < minYear || y > maxYear {
			continue
		}
		years = append(years, y)
	}
	return years
}

// EarliestYear returns the smallest plausible year in the text.
func EarliestYear(text string) (int, bool) {
	years := Years(text)
	if len(years) == 0 {
		return 0, false
	}
	earliest := years[0]
	for _, y := range years[1:] {
		if y < earliest {
			earliest = y
		}
	}
	return earliest, true
}

// FirstYear returns the first plausible year that appears in s.
func FirstYear(s string) (int, bool) {
	years := Years(s)
	if len(years) == 0 {
		return 0, false
	}
	return years[0], true
}

var sentenceSplit = regexp.MustCompile(`[.!?]\s+|[.!?]$|\n+`)

// Sentences splits text into trimmed sentences longer than
// minSentenceLen characters.
func Sentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLen {
			out = append(out, s)
		}
	}
	return out
}

// BestSentences scores each usable sentence by query-word overlap and
// returns the top n, highest first, ties in text order. Sentences that
// share no word with the query are dropped.
func BestSentences(query, text string, n int) []string {
	sentences := Sentences(text)
	if len(sentences) == 0 || n <= 0 {
		return nil
	}
	queryTokens := token.Tokenize(query)

	type scored struct {
		idx  int
		text string
		hits float64
	}
	var candidates []scored
	for i, s := range sentences {
		score := token.OverlapScore(queryTokens, token.Tokenize(s))
		if score > 0 {
			candidates = append(candidates, scored{idx: i, text: s, hits: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].hits > candidates[j].hits
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].text
	}
	return out
}

// chronoWords marks queries where date handling matters more than
// fluency.
var chronoWords = []string{"born", "birth", "birthdate", "birthday", "first", "earliest", "oldest", "founded", "established"}

// IsChronological reports whether the query asks for date ordering.
func IsChronological(query string) bool {
	lower := strings.ToLower(query)
	for _, w := range chronoWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Answer is the one-call fallback used by the degradation ladder: date
// patterns for chronological queries, best sentences otherwise. The
// boolean is false when the text offers nothing usable.
func Answer(query, text string) (string, bool) {
	if IsChronological(query) {
		if date, ok := BirthDate(text); ok {
			if s := sentenceAround(text, date); s != "" {
				return s, true
			}
			return date, true
		}
	}
	best := BestSentences(query, text, 2)
	if len(best) == 0 {
		return "", false
	}
	return strings.Join(best, " "), true
}

// sentenceAround returns the sentence containing needle, so the caller
// can show "Johnny Depp (born June 9, 1963) is an American actor"
// rather than the bare date.
func sentenceAround(text, needle string) string {
	for _, s := range Sentences(text) {
		if strings.Contains(s, needle) {
			return s
		}
	}
	return ""
}
