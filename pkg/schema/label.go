package schema

import (
	"strings"
	"unicode"
)

// FormatLabel turns a raw column identifier into a display label: underscores
// become spaces and the first letter of every word is upper-cased. All other
// characters pass through untouched.
func FormatLabel(columnName string) string {
	spaced := strings.ReplaceAll(columnName, "_", " ")

	var b strings.Builder
	b.Grow(len(spaced))
	prevIsWord := false
	for _, r := range spaced {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevIsWord {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevIsWord = isWord
	}
	return b.String()
}
