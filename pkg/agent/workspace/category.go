package workspace

import (
	"strings"

	"tabsensei-be/pkg/agent/tab"
)

// Category is the coarse bucket a tab falls into.
type Category string

const (
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryResearch      Category = "research"
	CategoryWork          Category = "work"
	CategoryUnknown       Category = "unknown"
)

// categoryPreviewLen bounds how much tab text joins the haystack; the
// signal lives in titles and URLs, the body only breaks ties.
const categoryPreviewLen = 500

// categoryKeywords is checked in order: shopping wins over
// entertainment wins over research wins over work. A storefront that
// mentions "youtube" in passing is still a storefront. Order is a
// precedence rule, not an accident.
var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryShopping, []string{
		"amazon", "ebay", "walmart", "target.com", "best buy", "bestbuy",
		"etsy", "shopify", "aliexpress", "product", "add to cart",
		"cart", "checkout", "buy now", "price", "$",
	}},
	{CategoryEntertainment, []string{
		"youtube", "netflix", "twitch", "spotify", "hulu", "disney",
		"reddit", "tiktok", "instagram", "facebook", "twitter", "x.com",
		"linkedin", "9gag", "imgur",
	}},
	{CategoryResearch, []string{
		"wikipedia", "stackoverflow", "stack overflow", "github",
		"medium.com", "arxiv", "scholar", ".edu", "research", "paper",
		"documentation", "docs.rs", "tutorial",
	}},
	{CategoryWork, []string{
		"docs.google", "drive.google", "sheets.google", "gmail",
		"mail.google", "outlook", "office.com", "slack", "notion",
		"jira", "confluence", "calendar",
	}},
}

// Classify assigns a category from ordered substring tests over
// title + URL + a bounded text preview. First match wins.
func Classify(t tab.Tab) Category {
	haystack := strings.ToLower(t.Title + " " + t.URL + " " + t.Preview(categoryPreviewLen))
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(haystack, w) {
				return ck.category
			}
		}
	}
	return CategoryUnknown
}

// ClassifyAll maps every tab to its category, preserving input order.
func ClassifyAll(tabs []tab.Tab) []Category {
	out := make([]Category, len(tabs))
	for i, t := range tabs {
		out[i] = Classify(t)
	}
	return out
}

// CountByCategory tallies categories for the workspace summary.
func CountByCategory(categories []Category) map[string]int {
	counts := make(map[string]int, len(categoryKeywords)+1)
	for _, c := range categories {
		counts[string(c)]++
	}
	return counts
}
