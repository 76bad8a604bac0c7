package observability

import (
	"testing"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

func TestCalculateStats(t *testing.T) {
	tasks := []models.Task{
		{Category: models.CategoryWork, Priority: models.PriorityHigh, Sender: "boss@co", Status: models.StatusPending, DueDate: "2025-06-10"},
		{Category: models.CategoryWork, Priority: models.PriorityMedium, Sender: "boss@co", Status: models.StatusDone, DueDate: "2025-06-01"},
		{Category: models.CategoryUrgent, Priority: models.PriorityHigh, Sender: "ops@co", Status: models.StatusPending},
		{Category: models.CategoryPersonal, Priority: models.PriorityLow, Sender: "me@home", Status: models.StatusPending, DueDate: "2025-07-01"},
	}

	stats := CalculateStats(tasks, "2025-06-15")

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.Pending != 3 {
		t.Errorf("Pending = %d, want 3", stats.Pending)
	}
	if stats.Done != 1 {
		t.Errorf("Done = %d, want 1", stats.Done)
	}
	if stats.ByCategory["Work"] != 2 {
		t.Errorf("ByCategory[Work] = %d, want 2", stats.ByCategory["Work"])
	}
	if stats.ByPriority["High"] != 2 {
		t.Errorf("ByPriority[High] = %d, want 2", stats.ByPriority["High"])
	}
	if stats.BySender["boss@co"] != 2 {
		t.Errorf("BySender[boss@co] = %d, want 2", stats.BySender["boss@co"])
	}
	// Only the pending past-due task counts; the done one with an old
	// due date does not.
	if stats.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", stats.Overdue)
	}
}

func TestCalculateStatsEmpty(t *testing.T) {
	stats := CalculateStats(nil, "2025-06-15")
	if stats.Total != 0 || stats.Pending != 0 || stats.Done != 0 || stats.Overdue != 0 {
		t.Errorf("got %+v, want zeroes", stats)
	}
	if stats.ByCategory == nil || stats.ByPriority == nil || stats.BySender == nil {
		t.Error("maps not initialized")
	}
}

func TestCalculateStatsDueTodayNotOverdue(t *testing.T) {
	tasks := []models.Task{
		{Status: models.StatusPending, DueDate: "2025-06-15"},
	}
	stats := CalculateStats(tasks, "2025-06-15")
	if stats.Overdue != 0 {
		t.Errorf("Overdue = %d, a task due today is not overdue", stats.Overdue)
	}
}
