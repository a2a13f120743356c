package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares free text for comparison:
//   - strips diacritics ("Mecânica" -> "mecanica")
//   - converts to lowercase
//   - drops punctuation and symbols
//   - compresses whitespace runs into a single space
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingSpace = true
		}
	}

	return b.String()
}

// Slugify turns a label into its URL form: "Beleza e Estética" -> "beleza-e-estetica".
func Slugify(text string) string {
	return strings.ReplaceAll(Normalize(text), " ", "-")
}

// EqualFold reports whether a and b are equal after normalization.
func EqualFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
