package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage stored tasks (list, show, complete)",
}

var (
	taskListStatusFlag   string
	taskListCategoryFlag string
	taskListAllFlag      bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List stored tasks, pending first, sorted by priority.

By default only pending tasks are shown; use --all to include done
tasks, or --status and --category to filter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("application not initialized")
		}

		tasks, err := Store.Load()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		filtered := tasks[:0:0]
		for _, t := range tasks {
			if taskListStatusFlag != "" && string(t.Status) != taskListStatusFlag {
				continue
			}
			if taskListCategoryFlag != "" && string(t.Category) != taskListCategoryFlag {
				continue
			}
			if taskListStatusFlag == "" && !taskListAllFlag && t.Status == models.StatusDone {
				continue
			}
			filtered = append(filtered, t)
		}

		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].Status != filtered[j].Status {
				return filtered[i].Status == models.StatusPending
			}
			return priorityRank(filtered[i].Priority) < priorityRank(filtered[j].Priority)
		})

		if len(filtered) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		for _, t := range filtered {
			printTaskLine(t)
		}
		fmt.Printf("\n%d task(s)\n", len(filtered))
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show full details of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("application not initialized")
		}

		task, err := Store.GetByID(args[0])
		if err != nil {
			return fmt.Errorf("loading task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task not found: %s", args[0])
		}

		fmt.Printf("ID:          %s\n", task.ID)
		fmt.Printf("Description: %s\n", task.Description)
		fmt.Printf("Category:    %s\n", task.Category)
		fmt.Printf("Priority:    %s\n", task.Priority)
		fmt.Printf("Status:      %s\n", task.Status)
		if task.DueDate != "" {
			fmt.Printf("Due:         %s\n", task.DueDate)
		}
		fmt.Printf("Sender:      %s\n", task.Sender)
		fmt.Printf("Subject:     %s\n", task.SourceEmail.Subject)
		fmt.Printf("Created:     %s\n", task.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("application not initialized")
		}

		updated, err := Store.UpdateStatus(args[0], models.StatusDone)
		if err != nil {
			return fmt.Errorf("completing task: %w", err)
		}
		if !updated {
			return fmt.Errorf("task not found: %s", args[0])
		}

		if EventLog != nil {
			_ = EventLog.Record(observability.EventTaskCompleted, "task marked done", map[string]any{"task_id": args[0]})
		}
		fmt.Printf("Task %s marked as done\n", args[0])
		return nil
	},
}

func printTaskLine(t models.Task) {
	mark := " "
	if t.Status == models.StatusDone {
		mark = "x"
	}
	due := ""
	if t.DueDate != "" {
		due = fmt.Sprintf(" (due %s)", t.DueDate)
	}
	fmt.Printf("[%s] %-12s %-6s %s%s\n    id: %s  from: %s\n",
		mark, t.Category, t.Priority, t.Description, due, t.ID, t.Sender)
}

func priorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	default:
		return 2
	}
}

func init() {
	taskListCmd.Flags().StringVar(&taskListStatusFlag, "status", "", "filter by status (pending, done)")
	taskListCmd.Flags().StringVar(&taskListCategoryFlag, "category", "", "filter by category")
	taskListCmd.Flags().BoolVar(&taskListAllFlag, "all", false, "include done tasks")
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	rootCmd.AddCommand(taskCmd)
}
