package intent

import (
	"regexp"
	"strings"
)

// The keyword tables below are configuration: refined against the test
// corpus, not a fixed contract. The rule ORDER is the contract —
// cleanup, price-alert and reminder outrank the generic buckets because
// missing one of them costs the user more than a slightly generic
// summary does.

var cleanupPhrases = []string{
	"close tab", "close all", "close the", "close every", "close other",
	"close any", "keep only", "clean up", "tidy up", "get rid of",
	"close duplicates",
}

var priceContextWords = []string{
	"price", "cost", "deal", "discount", "cheap", "expensive", "buy",
	"product", "$",
}

// priceMentionWords is the narrower set for the third price-alert
// condition: talk about a product alone is not a price mention.
var priceMentionWords = []string{
	"price", "cost", "deal", "discount", "cheap", "expensive", "$",
}

var alertVerbPhrases = []string{
	"notify", "remind", "alert", "let me know", "tell me", "watch",
	"track", "set", "yes",
}

var dropWords = []string{
	"drop", "drops", "dropped", "falls", "fall below", "below", "under",
	"goes down", "cheaper", "decrease", "on sale",
}

var reminderPhrases = []string{
	"remind me", "set a reminder", "set an alarm", "set alarm",
	"wake me", "reminder for",
}

var reminderVerbs = []string{"remind", "alarm", "wake"}

var comparePhrases = []string{
	"compare", "versus", " vs ", " vs.", "difference between",
	"differences", "pros and cons", "rank these", "which is better",
	"which one is", "better of",
}

var analysisPhrases = []string{
	"analyze", "analyse", "summarize", "summarise", "summary",
	"all tabs", "my tabs", "these tabs", "what tabs", "tab report",
	"overview", "organize", "organise", "workspace",
}

var interrogativeWords = []string{
	"what", "when", "who", "where", "which", "why", "how", "did", "does",
	"is", "are", "was", "were", "birthdate", "born", "first", "last",
	"latest", "earliest", "oldest", "newest", "date", "year", "many",
	"much",
}

var actionVerbs = []string{
	"close", "open", "find", "search", "compare", "summarize",
	"summarise", "remind", "track", "watch", "show", "list", "tell",
	"analyze", "analyse", "check", "help",
}

// timePattern matches clock times ("5pm", "17:30"), relative offsets
// ("in 20 minutes") and day-part words. Used by the reminder rules.
var timePattern = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}|\d{1,2}\s*(am|pm)|in\s+\d+\s+(minute|minutes|min|hour|hours|hr)|tomorrow|tonight|morning|afternoon|evening|noon|midnight)\b`)

// correctionPattern matches "I said X not Y" style follow-ups.
var correctionPattern = regexp.MustCompile(`(?i)\bi\s+said\b.+\bnot\b`)

// TimePhrase returns the first time expression found in text, for
// echoing a reminder back to the user.
func TimePhrase(text string) (string, bool) {
	m := timePattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}

type rule struct {
	name  string
	match func(*Signals) bool
	plan  func(*Signals) Plan
}

// rules is evaluated top to bottom; the first match wins. The default
// rule at the end always matches.
var rules = []rule{
	{
		name: "tab_count",
		match: func(s *Signals) bool {
			return s.contains("how many tabs") ||
				(s.contains("how many") && s.hasWord("tabs"))
		},
		plan: func(s *Signals) Plan {
			return Plan{Mode: ModeAnalysis, WantsTabCount: true}
		},
	},
	{
		name: "cleanup",
		match: func(s *Signals) bool {
			return s.containsAny(cleanupPhrases) && (s.hasWord("tab") || s.hasWord("tabs"))
		},
		plan: func(s *Signals) Plan {
			return Plan{Mode: ModeCleanup, NeedsClassification: true}
		},
	},
	{
		// All four conditions must hold. The conjunction keeps a bare
		// "yes" or "please" from arming a price watch out of nowhere.
		name: "price_alert",
		match: func(s *Signals) bool {
			priceContext := s.containsAny(priceContextWords) || s.historyContainsAny(priceContextWords)
			if !priceContext {
				return false
			}
			if !s.containsAny(alertVerbPhrases) {
				return false
			}
			dropTalk := s.containsAny(dropWords) || s.historyContainsAny(dropWords)
			priceTalk := s.containsAny(priceMentionWords) || s.historyContainsAny(priceMentionWords)
			if !dropTalk && !priceTalk {
				return false
			}
			return s.anyTabHasPrice()
		},
		plan: func(s *Signals) Plan {
			return Plan{Mode: ModePriceAlert, NeedsPriceExtraction: true}
		},
	},
	{
		name: "reminder",
		match: func(s *Signals) bool {
			if s.containsAny(reminderPhrases) {
				return true
			}
			hasTime := timePattern.MatchString(s.lower)
			if hasTime && s.containsAny(reminderVerbs) {
				return true
			}
			// Short follow-up that is mostly a time ("at 6pm instead"),
			// or a correction ("I said 7 not 8"), right after the
			// assistant talked about a reminder.
			if s.lastAssistantMentions("remind") {
				if hasTime && len(s.words) <= 5 {
					return true
				}
				if correctionPattern.MatchString(s.lower) && hasTime {
					return true
				}
			}
			return false
		},
		plan: func(s *Signals) Plan {
			return Plan{Mode: ModeReminder}
		},
	},
	{
		name: "compare",
		match: func(s *Signals) bool {
			return s.containsAny(comparePhrases)
		},
		plan: func(s *Signals) Plan {
			return Plan{
				Mode:                ModeMulti,
				NeedsClassification: true,
				NeedsSummarization:  true,
				ShouldAskCleanup:    s.tabCount > askCleanupTabThreshold,
			}
		},
	},
	{
		name: "analysis",
		match: func(s *Signals) bool {
			return s.containsAny(analysisPhrases)
		},
		plan: func(s *Signals) Plan {
			return Plan{
				Mode:                 ModeAnalysis,
				NeedsClassification:  true,
				NeedsSummarization:   true,
				NeedsPriceExtraction: true,
				ShouldAskCleanup:     s.tabCount > askCleanupTabThreshold,
			}
		},
	},
	{
		name: "single_question",
		match: func(s *Signals) bool {
			if s.contains("?") {
				return true
			}
			for _, w := range interrogativeWords {
				if s.hasWord(w) {
					return true
				}
			}
			return false
		},
		plan: func(s *Signals) Plan {
			return Plan{Mode: ModeSingle}
		},
	},
	{
		name: "clarify",
		match: func(s *Signals) bool {
			if len(s.words) > 3 {
				return false
			}
			for _, v := range actionVerbs {
				if s.hasWord(v) {
					return false
				}
			}
			return true
		},
		plan: func(s *Signals) Plan {
			return Plan{Mode: ModeClarify}
		},
	},
	{
		// Anything long and verb-ish we cannot place: treat it as a
		// question about the whole workspace. Safer than guessing a
		// comparison.
		name:  "default",
		match: func(s *Signals) bool { return true },
		plan: func(s *Signals) Plan {
			return Plan{
				Mode:                ModeAnalysis,
				NeedsClassification: true,
				NeedsSummarization:  true,
				ShouldAskCleanup:    s.tabCount > askCleanupTabThreshold,
			}
		},
	},
}
