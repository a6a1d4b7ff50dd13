package tsv

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacritics decomposes to NFD, drops combining marks, and recomposes to
// NFC. Some public dumps pass through one re-encoding too many and arrive
// with accented or combining-mark headers that the annotation engine's
// column matching chokes on.
var diacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripDiacritics returns s with combining marks removed and the result
// NFC-normalized. On a transform error the input is returned unchanged.
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacritics, s)
	if err != nil {
		return s
	}
	return out
}
