package cli

import (
	"fmt"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/pkg/models"
	"github.com/spf13/cobra"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Show per-phase progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		report := core.NewProgressAggregator(index).Summarize()
		if len(report.Phases) == 0 {
			fmt.Println("No phases defined.")
			return nil
		}

		for _, p := range report.Phases {
			fmt.Printf("%s\n", phaseHeading(p.Phase.ID, p.Phase.Name))
			if p.Phase.Description != "" {
				fmt.Printf("  %s\n", p.Phase.Description)
			}
			fmt.Printf("  %s %.1f%%  (%d/%d completed",
				progressBar(p.Summary.PercentComplete, 24),
				p.Summary.PercentComplete,
				p.Summary.Counts[models.StatusCompleted],
				p.Summary.Total)
			if blocked := p.Summary.Counts[models.StatusBlocked]; blocked > 0 {
				fmt.Printf(", %d blocked", blocked)
			}
			fmt.Println(")")
			fmt.Println()
		}

		fmt.Printf("Overall: %.1f%% of %d tasks complete\n", report.Global.PercentComplete, report.Global.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(phasesCmd)
}
