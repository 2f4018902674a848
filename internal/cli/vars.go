package cli

import (
	"fmt"
	"os"

	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	ProjectRoot string
	Config      *models.ProjectConfig
	Repo        storage.TaskRepository
)

// loadIndex loads the merged task index, printing any load warnings
// (duplicate IDs under the first-wins policy) to stderr.
func loadIndex() (*storage.TaskIndex, error) {
	if Repo == nil {
		return nil, fmt.Errorf("task repository not initialized")
	}
	index, err := Repo.Load()
	if err != nil {
		return nil, err
	}
	for _, w := range index.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return index, nil
}
