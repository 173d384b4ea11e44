package normalize

import (
	"regexp"
	"strings"
)

var (
	wsRe = regexp.MustCompile(`\s+`)
	// Trailing page markers the reasoning service sometimes appends to its
	// quotes, e.g. "... (page 4)" or "... p. 12". Matching them into the page
	// search would bias the locator toward whatever page the service guessed.
	pageTagRe = regexp.MustCompile(`(?i)\(?\b(?:page|p\.)\s*\d+\)?$`)
)

// Text canonicalizes raw extracted text so that extraction artifacts do not
// defeat substring matching: non-breaking spaces become ordinary spaces, every
// whitespace run (including newlines) collapses to a single space, the result
// is trimmed and lower-cased. Text is idempotent; empty input yields empty
// output.
func Text(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// StripPageTag removes a trailing "(page N)" or "p. N" marker from a quoted
// excerpt and trims the remainder. The input is otherwise untouched.
func StripPageTag(s string) string {
	return strings.TrimSpace(pageTagRe.ReplaceAllString(s, ""))
}
