package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/internal/integration"
	"github.com/spf13/cobra"
)

var (
	commitMessage string
	commitNoGit   bool
)

var commitCmd = &cobra.Command{
	Use:   "commit <task-id>",
	Short: "Mark a task completed and commit the work",
	Long: `Mark a task completed, appending a history entry with the commit
message, then stage and commit the project with git.

The completion is recorded before git runs and is never rolled back: a
missing or failing git is reported as a warning. Re-committing an already
completed task appends a fresh history entry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]

		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		lc := core.NewLifecycleController(Repo, index)
		task, err := lc.Commit(taskID, commitMessage)
		if err != nil {
			return fmt.Errorf("committing task: %w", err)
		}

		message := commitMessage
		if message == "" {
			message = "Complete task: " + taskID
		}
		fmt.Printf("Task %s marked as completed\n", task.ID)

		removeScratchContext(task)

		if !commitNoGit {
			committer := integration.NewGitCommitter(ProjectRoot)
			switch err := committer.Commit(message); {
			case err == nil:
				fmt.Printf("Committed to git: %s\n", message)
			case errors.Is(err, integration.ErrGitNotFound):
				fmt.Fprintln(os.Stderr, "Warning: git not found, skipping commit")
			default:
				fmt.Fprintf(os.Stderr, "Warning: git commit failed: %v\n", err)
			}
		}

		report, err := core.RenderHandoffReport(task, "Completed", message)
		if err == nil {
			fmt.Println()
			fmt.Print(report)
		}

		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message (default: Complete task: <task-id>)")
	commitCmd.Flags().BoolVar(&commitNoGit, "no-git", false, "skip the git commit")
	rootCmd.AddCommand(commitCmd)
}
