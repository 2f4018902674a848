package cli

import (
	"fmt"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/spf13/cobra"
)

var startBasic bool

var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Start working on a task",
	Long: `Mark a task in-progress and assemble its context bundle.

The bundle resolves the task's context references, and in the default
enhanced mode adds related tasks, an architecture section, and recent
decision history from the same phase. It is written to a scratch file
under the contexts directory for handoff; the file is removed on commit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]

		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		lc := core.NewLifecycleController(Repo, index)
		task, err := lc.Start(taskID)
		if err != nil {
			return fmt.Errorf("starting task: %w", err)
		}

		fmt.Printf("Started task %s\n", task.ID)
		if task.Source.PhaseID != 0 {
			fmt.Printf("  Phase:       %d - %s\n", task.Source.PhaseID, task.Source.PhaseName)
		}
		fmt.Printf("  Description: %s\n", task.Description)

		mode := core.ModeEnhanced
		if startBasic {
			mode = core.ModeBasic
		}
		asm := core.NewContextAssembler(ProjectRoot, Config, index, core.NewLexicalScorer())
		bundle, err := asm.Assemble(taskID, mode)
		if err != nil {
			return fmt.Errorf("assembling context: %w", err)
		}
		for _, w := range bundle.Warnings {
			fmt.Printf("  Warning: %s\n", w)
		}

		path, err := writeScratchContext(task, bundle.Rendered)
		if err != nil {
			return fmt.Errorf("saving context: %w", err)
		}
		fmt.Printf("Context saved to %s\n", path)
		fmt.Printf("Run 'phasetrack commit %s' when complete\n", taskID)

		return nil
	},
}

func init() {
	startCmd.Flags().BoolVar(&startBasic, "basic", false, "assemble basic context only (no related tasks, architecture, or decisions)")
	rootCmd.AddCommand(startCmd)
}
