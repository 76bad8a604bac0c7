package core

import (
	"testing"
	"time"
)

func TestExtractDueDateAt(t *testing.T) {
	// Sunday, June 15 2025.
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"by month day", "Submit the report by December 15", "2025-12-15"},
		{"due month day", "Assignment due March 3", "2025-03-03"},
		{"on month day", "Meeting on June 20", "2025-06-20"},
		{"abbreviated month", "Submit by Dec 15", "2025-12-15"},
		{"iso date", "Deadline is 2025-12-10 sharp", "2025-12-10"},
		{"slash date", "Party on 12/25/2025", "2025-12-25"},
		{"tomorrow", "Call the client tomorrow", "2025-06-16"},
		{"today", "Finish this today", "2025-06-15"},
		{"next week", "Review the draft next week", "2025-06-22"},
		{"next month", "Plan the offsite next month", "2025-07-15"},
		{"case insensitive marker", "DUE December 1", "2025-12-01"},
		{"no date", "Just a plain task with no deadline", ""},
		{"by without date", "Stop by the office", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDueDateAt(tt.text, now); got != tt.want {
				t.Errorf("extractDueDateAt(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractDueDatePatternOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// "by" outranks the ISO pattern when both are present.
	got := extractDueDateAt("Submit by December 15, booked on 2025-01-01", now)
	if got != "2025-12-15" {
		t.Errorf("got %q, want the 'by' phrase to win", got)
	}
}

func TestExtractDueDateNeverErrors(t *testing.T) {
	// Garbage after a marker word must not produce a date.
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	for _, text := range []string{"by zzz 99", "due qqq 0", "on xx 45"} {
		if got := extractDueDateAt(text, now); got != "" {
			t.Errorf("extractDueDateAt(%q) = %q, want empty", text, got)
		}
	}
}
