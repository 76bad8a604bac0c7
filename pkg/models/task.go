package models

import "time"

// Category classifies what area of life a task belongs to.
type Category string

const (
	CategoryWork        Category = "Work"
	CategoryPersonal    Category = "Personal"
	CategoryAcademic    Category = "Academic"
	CategoryUrgent      Category = "Urgent"
	CategoryLowPriority Category = "Low Priority"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryAcademic,
	CategoryUrgent,
	CategoryLowPriority,
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusDone    TaskStatus = "done"
)

// Valid reports whether s is a known status. Both directions of the
// pending/done transition are allowed; only unknown values are rejected.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// SourceEmail records where a task came from.
type SourceEmail struct {
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}

// Task is a single actionable item extracted from an email.
type Task struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Priority    Priority    `json:"priority"`
	DueDate     string      `json:"due_date,omitempty"` // YYYY-MM-DD, empty when unknown
	Sender      string      `json:"sender"`
	Status      TaskStatus  `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	SourceEmail SourceEmail `json:"source_email"`
}
