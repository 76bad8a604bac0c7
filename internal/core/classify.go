package core

import (
	"strings"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Keyword lists used by the rule-based classifier. Matching is always a
// case-insensitive substring check.
var (
	urgencyKeywords = []string{"urgent", "asap", "critical", "emergency", "immediately", "now"}

	workKeywords        = []string{"meeting", "report", "project", "client", "presentation", "deadline"}
	academicKeywords    = []string{"research", "paper", "study", "assignment", "thesis", "course"}
	personalKeywords    = []string{"family", "personal", "home", "grocery", "appointment"}
	lowPriorityKeywords = []string{"later", "sometime", "eventually", "when possible"}

	highPriorityKeywords = []string{"urgent", "asap", "critical", "important", "priority", "immediately"}
	lowPriorityIndicator = []string{"later", "sometime", "eventually", "when possible", "optional"}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ClassifyCategory determines the category for a task. Urgency keywords
// in the text win over everything, including the suggested category. A
// valid suggestion is returned verbatim next, then the keyword lists are
// checked in Work, Academic, Personal, Low Priority order. Work is the
// default.
func ClassifyCategory(text string, suggested models.Category) models.Category {
	lower := strings.ToLower(text)

	if containsAny(lower, urgencyKeywords) {
		return models.CategoryUrgent
	}
	if suggested.Valid() {
		return suggested
	}

	switch {
	case containsAny(lower, workKeywords):
		return models.CategoryWork
	case containsAny(lower, academicKeywords):
		return models.CategoryAcademic
	case containsAny(lower, personalKeywords):
		return models.CategoryPersonal
	case containsAny(lower, lowPriorityKeywords):
		return models.CategoryLowPriority
	default:
		return models.CategoryWork
	}
}

// DeterminePriority resolves the priority for a task. High-priority
// keywords win, then an Urgent category forces High, then low-priority
// keywords yield Low. Everything else is Medium.
func DeterminePriority(text string, category models.Category) models.Priority {
	lower := strings.ToLower(text)

	if containsAny(lower, highPriorityKeywords) {
		return models.PriorityHigh
	}
	if category == models.CategoryUrgent {
		return models.PriorityHigh
	}
	if containsAny(lower, lowPriorityIndicator) {
		return models.PriorityLow
	}
	return models.PriorityMedium
}
