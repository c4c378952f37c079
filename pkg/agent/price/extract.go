// Package price holds the shopping-side heuristics: spotting a price in
// raw tab text, cleaning product names out of page titles, and judging
// recorded price history. It also defines the narrow store contract the
// engine uses to persist watches and alerts.
package price

import (
	"regexp"
	"strconv"
	"strings"

	"tabsensei-be/pkg/agent/tab"
)

// Price is one extracted price mention.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Raw      string  `json:"raw"`
}

var currencyBySymbol = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₹": "INR",
}

// Patterns are tried in order; the first hit wins. Symbol-prefixed
// prices are the most trustworthy, the bare "price: 123" form the
// least.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([$€£¥₹])\s*([0-9][0-9.,]*)`),
	regexp.MustCompile(`([0-9][0-9.,]*)\s*([$€£¥₹])`),
	regexp.MustCompile(`(?i)\b([0-9][0-9.,]*)\s*(usd|eur|gbp|jpy|inr)\b`),
	regexp.MustCompile(`(?i)\bprice\s*[:\-]?\s*([$€£¥₹]?)\s*([0-9][0-9.,]*)`),
}

// FromText scans s for the first price mention. Returns false when no
// pattern matches or the matched amount parses to zero.
func FromText(s string) (Price, bool) {
	if s == "" {
		return Price{}, false
	}
	for i, re := range pricePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		var symbol, number string
		switch i {
		case 0:
			symbol, number = m[1], m[2]
		case 1:
			number, symbol = m[1], m[2]
		case 2:
			number, symbol = m[1], strings.ToUpper(m[2])
		case 3:
			symbol, number = m[1], m[2]
		}
		amount, ok := parseAmount(number)
		if !ok || amount <= 0 {
			continue
		}
		currency := "USD"
		if c, known := currencyBySymbol[symbol]; known {
			currency = c
		} else if len(symbol) == 3 {
			currency = symbol
		}
		return Price{Amount: amount, Currency: currency, Raw: strings.TrimSpace(m[0])}, true
	}
	return Price{}, false
}

// FromTab checks the tab text first, then the title. Shopping pages
// usually repeat the price in the title ("Widget - $29.99 - Shop").
func FromTab(t tab.Tab) (Price, bool) {
	if p, ok := FromText(t.Text); ok {
		return p, ok
	}
	return FromText(t.Title)
}

// parseAmount turns "1,299.99", "1.299,99" or "1299" into a float.
// Both thousands conventions show up in tab snapshots, so the decision
// is made from the last separator: a trailing group of exactly two
// digits marks the decimal part.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,")
	if s == "" {
		return 0, false
	}
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot < 0 && lastComma < 0:
		// plain integer
	case lastComma > lastDot:
		// comma is the rightmost separator
		if len(s)-lastComma-1 == 2 {
			s = strings.ReplaceAll(s[:lastComma], ".", "") + "." + s[lastComma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	default:
		// dot is the rightmost separator
		if len(s)-lastDot-1 == 3 && lastComma < 0 && strings.Count(s, ".") > 1 {
			// "1.299.000" style thousands
			s = strings.ReplaceAll(s, ".", "")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var titleNoise = []string{
	" - amazon.com", " | amazon", " - amazon", " | ebay", " - ebay",
	" | walmart", " - walmart.com", " - walmart", " | target",
	" - best buy", " | best buy", " - buy online", " | official site",
}

var titlePrefixes = []string{"buy ", "shop ", "amazon.com: ", "amazon.com : "}

// ProductName derives a display name from a shopping tab title: noise
// suffixes and storefront prefixes stripped, embedded price mentions
// removed.
func ProductName(t tab.Tab) string {
	name := strings.TrimSpace(t.Title)
	lower := strings.ToLower(name)
	for _, p := range titlePrefixes {
		if strings.HasPrefix(lower, p) {
			name = name[len(p):]
			lower = strings.ToLower(name)
			break
		}
	}
	for _, n := range titleNoise {
		if i := strings.Index(lower, n); i >= 0 {
			name = name[:i]
			lower = strings.ToLower(name)
		}
	}
	for _, re := range pricePatterns[:2] {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.Trim(strings.TrimSpace(name), "-|–: ")
	if name == "" {
		name = strings.TrimSpace(t.Title)
	}
	return name
}
