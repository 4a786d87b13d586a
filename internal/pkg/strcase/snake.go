// Package strcase converts identifier casing for user-facing output.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts s to snake_case, keeping initialisms whole:
// "userID" becomes "user_id" and "HTTPServer" becomes "http_server".
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s))

	for i, r := range runes {
		if i > 0 && startsWord(runes, i) {
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// startsWord reports whether a new word begins at runes[i]: either the
// case flips from lower or digit to upper, or an acronym ends and a word
// follows, as at the S of "HTTPServer".
func startsWord(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
