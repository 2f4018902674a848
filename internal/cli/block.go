package cli

import (
	"fmt"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block <task-id> <reason>",
	Short: "Mark a task as blocked",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, reason := args[0], args[1]

		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		lc := core.NewLifecycleController(Repo, index)
		task, err := lc.Block(taskID, reason)
		if err != nil {
			return fmt.Errorf("blocking task: %w", err)
		}

		fmt.Printf("Task %s marked as blocked: %s\n", task.ID, reason)

		report, err := core.RenderHandoffReport(task, "Blocked", core.NoteBlocked+reason)
		if err == nil {
			fmt.Println()
			fmt.Print(report)
		}
		return nil
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <task-id>",
	Short: "Return a blocked task to in-progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		lc := core.NewLifecycleController(Repo, index)
		task, err := lc.Unblock(args[0])
		if err != nil {
			return fmt.Errorf("unblocking task: %w", err)
		}

		fmt.Printf("Task %s back in progress\n", task.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}
