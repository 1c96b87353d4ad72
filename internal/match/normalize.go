package match

import (
	"strings"
	"unicode"
)

// NormalizeKey folds a keyword or field name for fuzzy comparison:
// lower-cased, with separators (_ - . / and whitespace) removed.
//
//	"multi-select"  -> "multiselect"
//	"Extract_Domain" -> "extractdomain"
//	"Company Name"  -> "companyname"
func NormalizeKey(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r)
}
