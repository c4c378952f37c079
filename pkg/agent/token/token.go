// Package token provides the tokenizer and the token-set overlap score
// the relevance ranker is built on. Everything here is deterministic
// and allocation-light; no locale handling, no stemming.
package token

import (
	"math"
	"strings"
	"unicode"
)

// Tokenize lowercases the input and splits it on every non-alphanumeric
// boundary. Empty input yields an empty slice. Order follows the input;
// duplicates are kept (callers that want a set use Set).
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Set returns the unique tokens of text.
func Set(text string) map[string]struct{} {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// OverlapScore computes |A∩B| / sqrt(|A|·|B|) over the unique tokens of
// both sides: a cosine similarity over binary term-presence vectors.
// Symmetric, range [0,1]; returns 0 when either side is empty and 1
// when both sides are the same non-empty set.
func OverlapScore(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	small, large := setA, setB
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for t := range small {
		if _, ok := large[t]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / math.Sqrt(float64(len(setA))*float64(len(setB)))
}

func toSet(tokens []string) map[string]struct{} {
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
