// Package medal holds the canonical medal vocabulary and the cleaning rule
// applied to raw medal-type labels.
package medal

import "strings"

// Type is a canonical medal label.
type Type string

// Canonical medal labels.
const (
	Gold   Type = "Gold"
	Silver Type = "Silver"
	Bronze Type = "Bronze"
)

// All lists the canonical labels in podium order.
var All = []Type{Gold, Silver, Bronze} //nolint:gochecknoglobals // fixed vocabulary

// Total is the column holding Gold+Silver+Bronze.
const Total = "Total"

// Labels returns All as plain strings.
func Labels() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = string(t)
	}
	return out
}

// Clean maps a raw label to its canonical form, ignoring case, surrounding
// space and a trailing " Medal" ("GOLD", "Gold Medal", "gold" -> "Gold").
// Labels outside the vocabulary are returned unchanged so that unseen
// variants flow through instead of failing the load.
func Clean(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimSpace(strings.TrimSuffix(key, "medal"))
	for _, t := range All {
		if key == strings.ToLower(string(t)) {
			return string(t)
		}
	}
	return raw
}

// IsCanonical reports whether s is one of the canonical labels.
func IsCanonical(s string) bool {
	for _, t := range All {
		if s == string(t) {
			return true
		}
	}
	return false
}

// VerboseColumn returns the long column header some extracts use, e.g. "Gold Medal".
func VerboseColumn(t Type) string {
	return string(t) + " Medal"
}
