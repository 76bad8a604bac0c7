// Package core contains the business logic for mailtask: text
// normalization, category and priority classification, due-date
// extraction, and the email-to-task extraction engine.
package core

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalize reduces text to a canonical form used for duplicate
// comparison: lowercase, punctuation stripped, whitespace collapsed to
// single spaces, ends trimmed. It is never used for display.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var (
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
	spaceRunPattern = regexp.MustCompile(` {2,}`)
)

// CleanText tidies free text for storage and display: line endings are
// normalized to \n, runs of blank lines and spaces are collapsed, and
// each line is trimmed. Empty lines are dropped.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// TruncateDescription cleans a task description and cuts it at maxLen
// runes, appending "..." when the text was shortened.
func TruncateDescription(desc string, maxLen int) string {
	desc = CleanText(desc)
	runes := []rune(desc)
	if len(runes) <= maxLen {
		return desc
	}
	return string(runes[:maxLen]) + "..."
}
