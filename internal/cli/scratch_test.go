package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/pkg/models"
)

func setupScratchVars(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	prevRoot, prevCfg := ProjectRoot, Config
	t.Cleanup(func() {
		ProjectRoot, Config = prevRoot, prevCfg
	})
	ProjectRoot = root
	Config = core.DefaultConfig()
	return root
}

func TestScratchContextPath(t *testing.T) {
	root := setupScratchVars(t)

	task := &models.Task{
		ID:     "3.2",
		Source: models.SourceLocation{File: "phase3.yaml", PhaseID: 3},
	}

	want := filepath.Join(root, "contexts", "phase3", "context_3.2.md")
	if got := scratchContextPath(task); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWriteRemoveScratchContext(t *testing.T) {
	setupScratchVars(t)

	task := &models.Task{
		ID:     "1.1",
		Source: models.SourceLocation{File: "phase1.yaml", PhaseID: 1},
	}

	path, err := writeScratchContext(task, "# Context for Task: 1.1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading scratch file: %v", err)
	}
	if string(data) != "# Context for Task: 1.1\n" {
		t.Fatalf("scratch content mismatch: %q", data)
	}

	removeScratchContext(task)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("scratch file still present after removal")
	}
}

func TestRemoveScratchContext_MissingFile(t *testing.T) {
	setupScratchVars(t)

	task := &models.Task{ID: "9.9"}
	// Removing a scratch file that was never written must be a no-op.
	removeScratchContext(task)
}
