package cli

import (
	"fmt"
	"sort"

	"github.com/phasetrack/phasetrack/pkg/models"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listPhase  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks grouped by phase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		tasks := index.Tasks
		if listStatus != "" {
			filtered := tasks[:0:0]
			for _, t := range tasks {
				if t.Status == models.TaskStatus(listStatus) {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}
		if cmd.Flags().Changed("phase") {
			filtered := tasks[:0:0]
			for _, t := range tasks {
				if t.Source.PhaseID == listPhase {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		byPhase := make(map[int][]*models.Task)
		for _, t := range tasks {
			byPhase[t.Source.PhaseID] = append(byPhase[t.Source.PhaseID], t)
		}

		phaseIDs := make([]int, 0, len(byPhase))
		for id := range byPhase {
			phaseIDs = append(phaseIDs, id)
		}
		sort.Ints(phaseIDs)

		names := phaseNames(index.Phases)
		for _, id := range phaseIDs {
			group := byPhase[id]
			fmt.Printf("== %s (%d tasks) ==\n", phaseHeading(id, names[id]), len(group))
			for _, t := range group {
				fmt.Printf("  %-20s %-12s %s\n", t.ID, t.Status, t.Description)
			}
			fmt.Println()
		}

		return nil
	},
}

func phaseNames(phases []models.PhaseInfo) map[int]string {
	names := make(map[int]string, len(phases))
	for _, p := range phases {
		names[p.ID] = p.Name
	}
	return names
}

func phaseHeading(id int, name string) string {
	if id == 0 && name == "" {
		return "Legacy Tasks"
	}
	if name == "" {
		return fmt.Sprintf("Phase %d", id)
	}
	return fmt.Sprintf("Phase %d: %s", id, name)
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	listCmd.Flags().IntVar(&listPhase, "phase", 0, "filter by phase id")
	rootCmd.AddCommand(listCmd)
}
