package cli

import (
	"fmt"
	"strings"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/pkg/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Show task detail or the project overview",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		if len(args) == 1 {
			task := index.Get(args[0])
			if task == nil {
				return fmt.Errorf("task %q: %w", args[0], core.ErrTaskNotFound)
			}
			printTaskDetail(task)
			return nil
		}

		report := core.NewProgressAggregator(index).Summarize()
		printOverview(report)
		return nil
	},
}

func printTaskDetail(task *models.Task) {
	fmt.Printf("Task:        %s\n", task.ID)
	fmt.Printf("Status:      %s\n", task.Status)
	fmt.Printf("Phase:       %s\n", sourceLabel(task.Source))
	fmt.Printf("Description: %s\n", task.Description)
	if task.Output != "" {
		fmt.Printf("Output:      %s\n", task.Output)
	}
	if task.Tests != "" {
		fmt.Printf("Tests:       %s\n", task.Tests)
	}
	if !task.Updated.IsZero() {
		fmt.Printf("Updated:     %s\n", task.Updated.Format("2006-01-02 15:04:05"))
	}
	if len(task.AcceptanceCriteria) > 0 {
		fmt.Println("Acceptance criteria:")
		for _, c := range task.AcceptanceCriteria {
			fmt.Printf("  - %s\n", c)
		}
	}
	if len(task.Context) > 0 {
		fmt.Println("Context refs:")
		for _, ref := range task.Context {
			fmt.Printf("  - %s\n", ref)
		}
	}
	if len(task.Notes) > 0 {
		fmt.Println("History:")
		for _, n := range task.Notes {
			fmt.Printf("  [%s] %s\n", n.Timestamp.Format("2006-01-02 15:04"), n.Note)
		}
	}
}

func printOverview(report *models.ProgressReport) {
	fmt.Printf("Project: %d tasks, %.1f%% complete\n\n", report.Global.Total, report.Global.PercentComplete)
	for _, s := range []models.TaskStatus{models.StatusCompleted, models.StatusInProgress, models.StatusBlocked, models.StatusPending} {
		if n := report.Global.Counts[s]; n > 0 {
			fmt.Printf("  %-12s %d\n", s, n)
		}
	}
	if len(report.Phases) > 0 {
		fmt.Println()
		for _, p := range report.Phases {
			fmt.Printf("%-36s %s %.1f%%\n", phaseHeading(p.Phase.ID, p.Phase.Name), progressBar(p.Summary.PercentComplete, 20), p.Summary.PercentComplete)
		}
	}
}

func sourceLabel(src models.SourceLocation) string {
	if src.PhaseID == 0 {
		return "Legacy"
	}
	if src.PhaseName != "" {
		return fmt.Sprintf("%d (%s)", src.PhaseID, src.PhaseName)
	}
	return fmt.Sprintf("%d", src.PhaseID)
}

func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
