package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phasetrack/phasetrack/internal/cli"
)

func TestNewApp_DefaultsWithoutConfigFile(t *testing.T) {
	root := t.TempDir()

	app, err := NewApp(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if app.Config == nil || app.Repo == nil || app.Store == nil {
		t.Fatalf("incomplete wiring: %+v", app)
	}
	if cli.ProjectRoot != root || cli.Repo == nil {
		t.Fatal("CLI layer not initialized")
	}

	ix, err := app.Repo.Load()
	if err != nil {
		t.Fatalf("loading empty project: %v", err)
	}
	if len(ix.Tasks) != 0 {
		t.Fatalf("expected empty index, got %d tasks", len(ix.Tasks))
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".phasetrack.yaml"), []byte("docs_dir: \"\"\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := NewApp(root); err == nil {
		t.Fatal("expected error for invalid configuration")
	}
}

func TestResolveProjectRoot_EnvOverride(t *testing.T) {
	t.Setenv("PHASETRACK_ROOT", "/srv/project")

	if got := ResolveProjectRoot(); got != "/srv/project" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestResolveProjectRoot_WalksUpToMarker(t *testing.T) {
	t.Setenv("PHASETRACK_ROOT", "")

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "tasks.yaml"), []byte("tasks: []\n"), 0o600); err != nil {
		t.Fatalf("writing marker: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("creating nested dirs: %v", err)
	}

	t.Chdir(nested)

	got := ResolveProjectRoot()
	// TempDir may sit behind a symlink; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Fatalf("expected root %q, got %q", root, got)
	}
}
