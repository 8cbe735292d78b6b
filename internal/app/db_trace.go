package app

import (
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

// formatDBQueryForTrace flattens a query onto one line for span attributes.
// Line comments are dropped and long statements are cut on a rune boundary.
func formatDBQueryForTrace(query string) string {
	var b strings.Builder
	for line := range strings.Lines(query) {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		for _, word := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
	}

	out := b.String()
	if len(out) <= maxTracedQueryLength {
		return out
	}
	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(out[cut]) {
		cut--
	}
	return out[:cut] + "..."
}
