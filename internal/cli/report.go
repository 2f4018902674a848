package cli

import (
	"fmt"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <task-id>",
	Short: "Print a session handoff report for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		task := index.Get(args[0])
		if task == nil {
			return fmt.Errorf("task %q: %w", args[0], core.ErrTaskNotFound)
		}

		summary := ""
		if n := len(task.Notes); n > 0 {
			summary = task.Notes[n-1].Note
		}
		out, err := core.RenderHandoffReport(task, string(task.Status), summary)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
