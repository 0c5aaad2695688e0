// engine/normalize.go - answer text normalization
package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize produces the comparison form of an answer: trimmed, case-folded
// and diacritics-stripped. French learners should not lose points over an
// accent or a stray space.
//
// The transform chain carries per-run state, so it is built per call rather
// than shared; Normalize is safe for concurrent use.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return s
}
