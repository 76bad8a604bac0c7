package observability

import (
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Stats holds the aggregates shown on the dashboard.
type Stats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	Done       int            `json:"done"`
	ByCategory map[string]int `json:"by_category"`
	ByPriority map[string]int `json:"by_priority"`
	BySender   map[string]int `json:"by_sender"`
	Overdue    int            `json:"overdue"` // pending tasks with a due date before today
}

// CalculateStats aggregates the given tasks. today is a YYYY-MM-DD
// string; due dates sort lexicographically in that format.
func CalculateStats(tasks []models.Task, today string) *Stats {
	stats := &Stats{
		ByCategory: make(map[string]int),
		ByPriority: make(map[string]int),
		BySender:   make(map[string]int),
	}

	for _, task := range tasks {
		stats.Total++
		stats.ByCategory[string(task.Category)]++
		stats.ByPriority[string(task.Priority)]++
		stats.BySender[task.Sender]++

		switch task.Status {
		case models.StatusDone:
			stats.Done++
		default:
			stats.Pending++
			if task.DueDate != "" && task.DueDate < today {
				stats.Overdue++
			}
		}
	}
	return stats
}
