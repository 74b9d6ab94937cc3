package match

import (
	"strings"
	"unicode"
)

// strippedSuffixes are dropped by NormalizeIdentWithSuffixStrip, longest first.
var strippedSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// NormalizeIdent folds an identifier for fuzzy comparison: words are joined
// and lowercased, so "FullName", "full_name" and "full-name" compare equal.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(splitWords(s), ""))
}

// NormalizeIdentWithSuffixStrip normalizes s and drops one common suffix
// ("AccountID" -> "account"). A name made only of the suffix is kept.
func NormalizeIdentWithSuffixStrip(s string) string {
	n := NormalizeIdent(s)

	for _, suffix := range strippedSuffixes {
		if len(n) > len(suffix) && strings.HasSuffix(n, suffix) {
			return n[:len(n)-len(suffix)]
		}
	}

	return n
}

// TokenizeIdent splits an identifier into lowercase words.
func TokenizeIdent(s string) []string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	return words
}

// SnakeCase converts an identifier to its lower snake_case form.
// Examples:
//   - "LegacyUser" -> "legacy_user"
//   - "HTTPRequestLog" -> "http_request_log"
//   - "order-items" -> "order_items"
func SnakeCase(s string) string {
	return strings.Join(TokenizeIdent(s), "_")
}

// splitWords splits at separators, at lower-to-upper case changes and before
// the last capital of an acronym followed by a lowercase letter, so that
// "XMLParser" gives "XML" and "Parser".
func splitWords(s string) []string {
	runes := []rune(s)

	var words []string

	start := -1

	for i, r := range runes {
		switch {
		case isSeparator(r):
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
		case start < 0:
			start = i
		case wordStartsAt(runes, i):
			words = append(words, string(runes[start:i]))
			start = i
		}
	}

	if start >= 0 {
		words = append(words, string(runes[start:]))
	}

	return words
}

func wordStartsAt(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
