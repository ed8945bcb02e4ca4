// Package slug derives URL-safe identifiers from titles and filenames.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so "é" becomes
// "e" and "ğ" becomes "g".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Letters with no Unicode decomposition that still need an ASCII spelling.
var replacements = strings.NewReplacer(
	"ı", "i", "İ", "I",
	"ø", "o", "Ø", "O",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
)

// Make converts arbitrary text into a lowercase, hyphen-separated, ASCII-only
// slug. Characters that survive neither decomposition nor replacement are
// treated as separators; runs of separators collapse to a single hyphen.
func Make(text string) string {
	text = replacements.Replace(text)
	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingHyphen := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
