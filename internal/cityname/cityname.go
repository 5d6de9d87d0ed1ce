package cityname

import (
	"regexp"
	"strings"
)

var reZeroPadded = regexp.MustCompile(`\b0+(\d+)\b`)

// Normalize folds a free-text city label into a comparable form: lower-cased,
// zero-padding stripped from digit runs ("Colombo 03" -> "colombo 3"), and
// surrounding whitespace trimmed. The result is for equality checks only,
// never for display.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return reZeroPadded.ReplaceAllString(s, "$1")
}

// Same reports whether two city labels denote the same place. This is a
// heuristic: labels that differ by more than case, whitespace, or digit
// zero-padding do not match, which is the only variant the listing data
// exhibits.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
