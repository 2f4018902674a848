package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// Dashboard panel indices.
const (
	panelTasks = iota
	panelPhases
	panelBlocked
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	taskCounts map[models.TaskStatus]int
	total      int
	phases     []models.PhaseProgress
	blocked    []blockedSnapshot

	// State.
	loading bool
	err     error
}

type blockedSnapshot struct {
	id     string
	reason string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	taskCounts map[models.TaskStatus]int
	total      int
	phases     []models.PhaseProgress
	blocked    []blockedSnapshot
	err        error
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

	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusCompletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBlockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusPendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelTasks,
		loading:     true,
		taskCounts:  make(map[models.TaskStatus]int),
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
			return m, loadDashboardData
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
		m.taskCounts = msg.taskCounts
		m.total = msg.total
		m.phases = msg.phases
		m.blocked = msg.blocked
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" PhaseTrack Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	tasksPanel := m.renderTasksPanel()
	phasesPanel := m.renderPhasesPanel()
	blockedPanel := m.renderBlockedPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, colWidth-4)
		phasesPanel = m.applyPanelStyle(panelPhases, phasesPanel, colWidth-4)
		blockedPanel = m.applyPanelStyle(panelBlocked, blockedPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tasksPanel, phasesPanel, blockedPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, panelWidth)
		phasesPanel = m.applyPanelStyle(panelPhases, phasesPanel, panelWidth)
		blockedPanel = m.applyPanelStyle(panelBlocked, blockedPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, tasksPanel, phasesPanel, blockedPanel)
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

	if m.total == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	// Display in lifecycle order.
	order := []models.TaskStatus{
		models.StatusInProgress,
		models.StatusBlocked,
		models.StatusPending,
		models.StatusCompleted,
	}
	for _, status := range order {
		count, ok := m.taskCounts[status]
		if !ok || count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-12s %d", status, count)
		b.WriteString(styleForStatus(status).Render(label))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d", m.total))

	return b.String()
}

func (m dashboardModel) renderPhasesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Phases"))
	b.WriteString("\n")

	if len(m.phases) == 0 {
		b.WriteString("  No phases defined.")
		return b.String()
	}

	for _, p := range m.phases {
		name := p.Phase.Name
		if name == "" {
			name = fmt.Sprintf("Phase %d", p.Phase.ID)
		}
		b.WriteString(fmt.Sprintf("  %-20s %s %5.1f%%\n",
			truncate(name, 20),
			barStyle.Render(progressBar(p.Summary.PercentComplete, 12)),
			p.Summary.PercentComplete))
	}

	return b.String()
}

func (m dashboardModel) renderBlockedPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Blocked"))
	b.WriteString("\n")

	if len(m.blocked) == 0 {
		b.WriteString("  No blocked tasks.")
		return b.String()
	}

	for _, t := range m.blocked {
		id := statusBlockedStyle.Render(t.id)
		b.WriteString(fmt.Sprintf("  %s %s\n", id, truncate(t.reason, 40)))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d blocked", len(m.blocked)))

	return b.String()
}

func styleForStatus(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusInProgress:
		return statusInProgressStyle
	case models.StatusCompleted:
		return statusCompletedStyle
	case models.StatusBlocked:
		return statusBlockedStyle
	case models.StatusPending:
		return statusPendingStyle
	default:
		return lipgloss.NewStyle()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func loadDashboardData() tea.Msg {
	result := dataLoadedMsg{
		taskCounts: make(map[models.TaskStatus]int),
	}

	index, err := loadIndex()
	if err != nil {
		result.err = err
		return result
	}

	report := core.NewProgressAggregator(index).Summarize()
	result.taskCounts = report.Global.Counts
	result.total = report.Global.Total
	result.phases = report.Phases

	for _, t := range index.Tasks {
		if t.Status != models.StatusBlocked {
			continue
		}
		reason := ""
		if n := len(t.Notes); n > 0 {
			reason = t.Notes[n-1].Note
		}
		result.blocked = append(result.blocked, blockedSnapshot{id: t.ID, reason: reason})
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for task and phase progress",
	Long: `Launch an interactive terminal dashboard showing task status counts,
per-phase completion, and currently blocked tasks.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("task repository not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
