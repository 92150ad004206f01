package validation

import (
	"regexp"
	"strings"
)

var badWords = []string{"damn", "hell", "shit", "fuck"}

var badWordPattern = regexp.MustCompile(`(?i)` + strings.Join(badWords, "|"))

// ContainsProfanity reports whether s contains a listed word, ignoring case.
// Matching is by substring, so "hello" is rejected as well.
func ContainsProfanity(s string) bool {
	return badWordPattern.MatchString(s)
}

// Censor replaces every listed word in s with asterisks of the same length.
func Censor(s string) string {
	return badWordPattern.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat("*", len(m))
	})
}
