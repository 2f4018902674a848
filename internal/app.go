// Package internal provides the App struct that wires all components of
// phasetrack together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phasetrack/phasetrack/internal/cli"
	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// App holds the service dependencies for phasetrack.
type App struct {
	Root   string
	Config *models.ProjectConfig

	Store storage.DocumentStore
	Repo  storage.TaskRepository
}

// NewApp loads project configuration from root, wires the storage layer,
// and publishes the services to the CLI layer.
func NewApp(root string) (*App, error) {
	app := &App{Root: root}

	loader := core.NewConfigLoader(root)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := loader.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	app.Config = cfg

	app.Store = storage.NewDocumentStore(root, cfg.PhasesDir)
	app.Repo = storage.NewTaskRepository(app.Store, cfg.StrictDuplicates)

	cli.ProjectRoot = root
	cli.Config = cfg
	cli.Repo = app.Repo

	return app, nil
}

// ResolveProjectRoot determines the project root directory. PHASETRACK_ROOT
// wins when set; otherwise the current directory tree is walked upward
// looking for a .phasetrack.yaml or tasks.yaml marker, falling back to the
// current directory.
func ResolveProjectRoot() string {
	if root := os.Getenv("PHASETRACK_ROOT"); root != "" {
		return root
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		for _, marker := range []string{".phasetrack.yaml", storage.LegacyFileName} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
