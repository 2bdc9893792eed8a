// Package names derives the canonical athlete-name key used to join tables
// that disagree on given/family name order.
package names

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the join key for name: accents removed, lowercased,
// everything except a-z and whitespace dropped, words sorted and joined by
// a single space. "EVENEPOEL Remco" and "Remco Evenepoel" yield the same key.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	// The transformer holds state, so one is built per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	sort.Strings(words)
	return strings.Join(words, " ")
}

// NormalizeNullable is Normalize for cells that may be missing.
func NormalizeNullable(name *string) string {
	if name == nil {
		return ""
	}
	return Normalize(*name)
}

// IsValidAthleteName reports whether name is usable in an athlete picker.
// Source extracts contain purely numeric placeholders such as "671".
func IsValidAthleteName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
