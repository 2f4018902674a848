package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phasetrack/phasetrack/pkg/models"
)

// scratchContextPath returns the scratch context file location for a task:
// <contexts_dir>/phase<N>/context_<task-id>.md. The file is an operator
// convenience, not a source of truth; the bundle is reconstructible.
func scratchContextPath(task *models.Task) string {
	contextsDir := Config.ContextsDir
	if !filepath.IsAbs(contextsDir) {
		contextsDir = filepath.Join(ProjectRoot, contextsDir)
	}
	phaseDir := filepath.Join(contextsDir, fmt.Sprintf("phase%d", task.Source.PhaseID))
	return filepath.Join(phaseDir, fmt.Sprintf("context_%s.md", task.ID))
}

// writeScratchContext writes the rendered bundle to the task's scratch
// file, creating the phase directory as needed.
func writeScratchContext(task *models.Task, rendered string) (string, error) {
	path := scratchContextPath(task)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating context directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
		return "", fmt.Errorf("writing context file: %w", err)
	}
	return path, nil
}

// removeScratchContext deletes the task's scratch file if present.
func removeScratchContext(task *models.Task) {
	path := scratchContextPath(task)
	if err := os.Remove(path); err == nil {
		fmt.Printf("Removed context file: %s\n", path)
	}
}
