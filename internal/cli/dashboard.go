package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Dashboard panel indices.
const (
	panelTasks = iota
	panelStats
	panelEvents
	panelCount
)

const dashboardEventLimit = 10

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	tasks  []models.Task
	stats  *observability.Stats
	events []observability.Event

	// State.
	selected int
	loading  bool
	status   string
	err      error
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	tasks  []models.Task
	stats  *observability.Stats
	events []observability.Event
	err    error
}

// taskCompletedMsg reports the outcome of completing the selected task.
type taskCompletedMsg struct {
	id  string
	err error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	categoryUrgent   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	categoryWork     = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	categoryAcademic = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	categoryPersonal = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	categoryLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelTasks,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboardData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			m.status = ""
			return m, loadDashboardData
		case "up", "k":
			if m.activePanel == panelTasks && m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.activePanel == panelTasks && m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "c":
			if m.activePanel == panelTasks && m.selected < len(m.tasks) {
				t := m.tasks[m.selected]
				if t.Status != models.StatusDone {
					return m, completeSelectedTask(t.ID)
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.tasks = msg.tasks
		m.stats = msg.stats
		m.events = msg.events
		m.err = nil
		if m.selected >= len(m.tasks) {
			m.selected = 0
		}
		return m, nil

	case taskCompletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %s", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Completed %s", msg.id)
		return m, loadDashboardData
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" mailtask Dashboard ")
	help := helpStyle.Render("tab: switch panel | j/k: select | c: complete | r: refresh | q: quit")
	if m.status != "" {
		help = m.status + "\n" + help
	}

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	tasksPanel := m.renderTasksPanel()
	statsPanel := m.renderStatsPanel()
	eventsPanel := m.renderEventsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: wide task column, two narrow columns.
		taskWidth := availableWidth / 2
		sideWidth := availableWidth / 4
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, taskWidth-4)
		statsPanel = m.applyPanelStyle(panelStats, statsPanel, sideWidth-4)
		eventsPanel = m.applyPanelStyle(panelEvents, eventsPanel, sideWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tasksPanel, statsPanel, eventsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, panelWidth)
		statsPanel = m.applyPanelStyle(panelStats, statsPanel, panelWidth)
		eventsPanel = m.applyPanelStyle(panelEvents, eventsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, tasksPanel, statsPanel, eventsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderTasksPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	for i, t := range m.tasks {
		mark := "[ ]"
		if t.Status == models.StatusDone {
			mark = "[x]"
		}
		due := ""
		if t.DueDate != "" {
			due = fmt.Sprintf(" (due %s)", t.DueDate)
		}
		line := fmt.Sprintf("%s %s %s%s", mark, styleForCategory(t.Category).Render(string(t.Category)), t.Description, due)
		if i == m.selected {
			line = selectedStyle.Render("> " + line)
		} else if t.Status == models.StatusDone {
			line = doneStyle.Render("  " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m dashboardModel) renderStatsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Stats"))
	b.WriteString("\n")

	if m.stats == nil {
		b.WriteString("  No stats available.")
		return b.String()
	}

	s := m.stats
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "Total", s.Total))
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "Pending", s.Pending))
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "Done", s.Done))
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "Overdue", s.Overdue))

	if len(s.ByCategory) > 0 {
		b.WriteString("\n")
		categories := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			b.WriteString(fmt.Sprintf("  %-14s %d\n", c, s.ByCategory[c]))
		}
	}

	return b.String()
}

func (m dashboardModel) renderEventsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent Events"))
	b.WriteString("\n")

	if len(m.events) == 0 {
		b.WriteString("  No recent events.")
		return b.String()
	}

	for _, e := range m.events {
		b.WriteString(fmt.Sprintf("  %s  %s\n", e.Time.Format("15:04"), e.Type))
	}

	return b.String()
}

func styleForCategory(c models.Category) lipgloss.Style {
	switch c {
	case models.CategoryUrgent:
		return categoryUrgent
	case models.CategoryWork:
		return categoryWork
	case models.CategoryAcademic:
		return categoryAcademic
	case models.CategoryPersonal:
		return categoryPersonal
	case models.CategoryLowPriority:
		return categoryLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboardData() tea.Msg {
	result := dataLoadedMsg{}

	if Store == nil {
		result.err = fmt.Errorf("application not initialized")
		return result
	}

	tasks, err := Store.Load()
	if err != nil {
		result.err = err
		return result
	}

	// Pending tasks first, high priority at the top.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Status != tasks[j].Status {
			return tasks[i].Status == models.StatusPending
		}
		return priorityRank(tasks[i].Priority) < priorityRank(tasks[j].Priority)
	})
	result.tasks = tasks
	result.stats = observability.CalculateStats(tasks, time.Now().UTC().Format("2006-01-02"))

	if EventLog != nil {
		events, err := EventLog.Read(observability.EventFilter{Limit: dashboardEventLimit})
		if err == nil {
			result.events = events
		}
	}

	return result
}

func completeSelectedTask(id string) tea.Cmd {
	return func() tea.Msg {
		updated, err := Store.UpdateStatus(id, models.StatusDone)
		if err == nil && !updated {
			err = fmt.Errorf("task not found: %s", id)
		}
		if err == nil && EventLog != nil {
			_ = EventLog.Record(observability.EventTaskCompleted, "task marked done", map[string]any{"task_id": id})
		}
		return taskCompletedMsg{id: id, err: err}
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive terminal dashboard for tasks, stats, and events",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("application not initialized")
		}

		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
