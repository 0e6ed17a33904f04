// Package merchant provides merchant-name canonicalization and the string
// similarity primitive used by the matching engine.
package merchant

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	whitespace = regexp.MustCompile(`\s+`)

	digits = regexp.MustCompile(`^\d+$`)

	// Business suffixes, generic nouns, and abbreviations that carry no
	// identity signal. Store numbers ("#123") are dropped separately.
	noiseWords = map[string]struct{}{
		"inc":        {},
		"llc":        {},
		"ltd":        {},
		"corp":       {},
		"co":         {},
		"company":    {},
		"restaurant": {},
		"store":      {},
		"shop":       {},
		"market":     {},
		"mkt":        {},
	}
)

// Normalize canonicalizes free-text merchant or description text into a
// comparable key: lowercase, punctuation stripped, business suffixes and
// generic nouns removed, whitespace collapsed. Pure and deterministic.
func Normalize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	cleaned := nonWord.ReplaceAllString(lower, " ")

	words := strings.Fields(cleaned)
	kept := words[:0]
	for _, w := range words {
		if _, noise := noiseWords[w]; noise {
			continue
		}
		if digits.MatchString(w) {
			continue
		}
		kept = append(kept, w)
	}

	return whitespace.ReplaceAllString(strings.TrimSpace(strings.Join(kept, " ")), " ")
}
