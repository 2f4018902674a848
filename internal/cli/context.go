package cli

import (
	"fmt"
	"os"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/spf13/cobra"
)

var contextBasic bool

var contextCmd = &cobra.Command{
	Use:   "context <task-id>",
	Short: "Preview the context bundle for a task without changing its status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		mode := core.ModeEnhanced
		if contextBasic {
			mode = core.ModeBasic
		}

		assembler := core.NewContextAssembler(ProjectRoot, Config, index, core.NewLexicalScorer())
		bundle, err := assembler.Assemble(args[0], mode)
		if err != nil {
			return fmt.Errorf("assembling context: %w", err)
		}

		for _, w := range bundle.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		fmt.Println(bundle.Rendered)
		return nil
	},
}

func init() {
	contextCmd.Flags().BoolVar(&contextBasic, "basic", false, "skip related tasks, architecture, and decision history")
	rootCmd.AddCommand(contextCmd)
}
