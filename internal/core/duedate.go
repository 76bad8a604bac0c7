package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dueDatePatterns are tried in order; the first pattern whose captured
// candidate also parses wins.
var dueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)by (\w+ \d+)`),
	regexp.MustCompile(`(?i)due (\w+ \d+)`),
	regexp.MustCompile(`(?i)on (\w+ \d+)`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(?i)(tomorrow|today|next week|next month)`),
}

var naturalParser = func() *when.Parser {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return p
}()

// ExtractDueDate scans task text for a date-like phrase and normalizes
// it to YYYY-MM-DD. It is best effort: parse failures move on to the
// next pattern and any leftover error means "no date found", never a
// failure.
func ExtractDueDate(text string) string {
	return extractDueDateAt(text, time.Now())
}

func extractDueDateAt(text string, now time.Time) string {
	for _, pattern := range dueDatePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if parsed, ok := parseCandidate(match[1], now); ok {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

// parseCandidate turns a captured substring into a calendar date. It
// tries literal date layouts first, then month-day phrases completed
// with the current year, then natural-language phrases.
func parseCandidate(candidate string, now time.Time) (time.Time, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"January 2", "Jan 2"} {
		if t, err := time.Parse(layout, candidate); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
		}
	}

	if t, err := dateparse.ParseAny(candidate); err == nil {
		// Year-less phrases come back on year zero; complete them with
		// the current year.
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		}
		return t, true
	}

	if r, err := naturalParser.Parse(candidate, now); err == nil && r != nil {
		return r.Time, true
	}

	// The when rules do not cover every relative phrase the patterns
	// accept, so the two calendar-step phrases are resolved directly.
	switch strings.ToLower(candidate) {
	case "next week":
		return now.AddDate(0, 0, 7), true
	case "next month":
		return now.AddDate(0, 1, 0), true
	}

	return time.Time{}, false
}
