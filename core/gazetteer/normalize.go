package gazetteer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes (canonical + compatibility) and drops combining marks.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize folds a place name for exact lookup: NFKD, combining marks removed,
// punctuation runs turned into one space, whitespace collapsed, trimmed, lowercased.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(name))
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if isSeparator(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// isSeparator covers whitespace, Unicode punctuation and the ASCII symbols
// that POSIX counts as punctuation (e.g. "+", "|", "~").
func isSeparator(r rune) bool {
	if unicode.IsSpace(r) || unicode.IsPunct(r) {
		return true
	}
	return r < unicode.MaxASCII && unicode.IsSymbol(r)
}
