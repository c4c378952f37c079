package answer

import (
	"fmt"
	"strings"

	"tabsensei-be/pkg/agent/rank"
	"tabsensei-be/pkg/agent/tab"
)

// Content budgets for prompt building. Oversized prompts waste the
// call budget on upload time, so tab text is cut hard.
const (
	singleTabContentLen = 3000
	mergedTabContentLen = 1200
	summaryContentLen   = 1500
)

const qaSystem = "You answer questions using only the provided browser tab content. " +
	"Answer in one or two sentences. If the content does not contain the answer, say so plainly."

const summarySystem = "You summarize web pages. Reply with exactly one short sentence " +
	"describing what the page is about. No preamble."

const formatSystem = "You turn a structured digest of a browser workspace into a short, " +
	"friendly report. Two or three sentences, no markdown, no bullet lists."

const compareSystem = "You compare items using the provided tab summaries. " +
	"Name the tabs you compare and finish with a one-sentence recommendation."

const verifySystem = "You resolve date questions. Given candidate dates or years from " +
	"several sources, answer with the earliest one that fits the question, including the year."

func qaPrompt(query string, history []tab.Turn, content string) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, turn := range history {
			b.WriteString(turn.Role)
			b.WriteString(": ")
			b.WriteString(turn.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Tab content:\n")
	b.WriteString(content)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	return b.String()
}

func singleTabContent(t tab.Tab) string {
	return fmt.Sprintf("[%s] %s", t.Title, t.Preview(singleTabContentLen))
}

func mergedTabContent(tabs []tab.Tab) string {
	var b strings.Builder
	for _, t := range tabs {
		fmt.Fprintf(&b, "--- Tab %d: %s ---\n%s\n", t.ID, t.Title, t.Preview(mergedTabContentLen))
	}
	return b.String()
}

func summaryPrompt(t tab.Tab) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(t.Title)
	b.WriteString("\nURL: ")
	b.WriteString(t.URL)
	b.WriteString("\nContent: ")
	b.WriteString(t.Preview(summaryContentLen))
	return b.String()
}

func comparePrompt(query string, ranked []rank.ScoredTab, summaries map[int]string) string {
	var b strings.Builder
	b.WriteString("Tabs under comparison:\n")
	for _, st := range ranked {
		fmt.Fprintf(&b, "- Tab %d (%s): %s\n", st.Tab.ID, st.Tab.Title, summaries[st.Tab.ID])
	}
	b.WriteString("\nRequest: ")
	b.WriteString(query)
	return b.String()
}

func verifyPrompt(query string, candidates []string) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\nCandidate dates found across tabs:\n")
	for _, c := range candidates {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String()
}
