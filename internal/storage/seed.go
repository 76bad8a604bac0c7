package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// SampleTasks returns demo tasks with varied categories, priorities,
// and senders. They are only inserted by the seed command, never
// automatically.
func SampleTasks(now time.Time) []models.Task {
	now = now.UTC()
	sample := func(desc string, category models.Category, priority models.Priority, due, sender, subject string, status models.TaskStatus) models.Task {
		return models.Task{
			ID:          uuid.NewString(),
			Description: desc,
			Category:    category,
			Priority:    priority,
			DueDate:     due,
			Sender:      sender,
			Status:      status,
			CreatedAt:   now,
			SourceEmail: models.SourceEmail{Subject: subject, ReceivedAt: now},
		}
	}

	return []models.Task{
		sample("Complete Q4 financial report and submit to board",
			models.CategoryWork, models.PriorityHigh, "2025-12-15",
			"cfo@company.com", "Q4 Report Due", models.StatusPending),
		sample("Review and approve team vacation requests for December",
			models.CategoryWork, models.PriorityMedium, "2025-12-10",
			"hr@company.com", "Vacation Approvals Needed", models.StatusPending),
		sample("URGENT: Fix production server outage affecting customers",
			models.CategoryUrgent, models.PriorityHigh, "2025-12-06",
			"ops@company.com", "CRITICAL: Production Down", models.StatusPending),
		sample("Buy groceries and prepare dinner for family gathering",
			models.CategoryPersonal, models.PriorityMedium, "2025-12-08",
			"family@personal.com", "Weekend Plans", models.StatusPending),
		sample("Submit research paper draft to advisor for feedback",
			models.CategoryAcademic, models.PriorityHigh, "2025-12-12",
			"advisor@university.edu", "Paper Deadline Reminder", models.StatusPending),
		sample("Schedule dentist appointment for annual checkup",
			models.CategoryLowPriority, models.PriorityLow, "",
			"dentist@clinic.com", "Time for Your Checkup", models.StatusPending),
		sample("Prepare presentation slides for client meeting next week",
			models.CategoryWork, models.PriorityHigh, "2025-12-13",
			"manager@company.com", "Client Meeting Prep", models.StatusDone),
	}
}
