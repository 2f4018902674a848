package cli

import (
	"fmt"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/pkg/models"
	"github.com/spf13/cobra"
)

var setStatusNote string

var setStatusCmd = &cobra.Command{
	Use:   "set-status <task-id> <status>",
	Short: "Force a task into a specific status",
	Long: `Set a task's status directly, bypassing the start/commit/block
shorthand. The engine does not gate transitions on the current state; a
history entry is always appended (the note given with --note, or a generic
one).

Valid statuses: pending, in-progress, completed, blocked.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]
		status := models.TaskStatus(args[1])
		if !models.ValidStatuses[status] {
			return fmt.Errorf("invalid status %q: must be one of pending, in-progress, completed, blocked", args[1])
		}

		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		lc := core.NewLifecycleController(Repo, index)
		task, err := lc.Apply(taskID, status, setStatusNote)
		if err != nil {
			return fmt.Errorf("setting status: %w", err)
		}

		fmt.Printf("Task %s status set to %s\n", task.ID, task.Status)
		return nil
	},
}

func init() {
	setStatusCmd.Flags().StringVar(&setStatusNote, "note", "", "history note to record with the change")
	rootCmd.AddCommand(setStatusCmd)
}
