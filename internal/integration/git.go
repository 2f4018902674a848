// Package integration wraps the external tools phasetrack collaborates
// with. Failures here are reported to the operator and never retried; the
// engine's own state is already durable before any tool is invoked.
package integration

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotFound reports that no git binary is available on PATH. Callers
// treat it as a recoverable absence, not a failure of the task mutation.
var ErrGitNotFound = errors.New("git not found in PATH")

// Committer records completed work in version control.
type Committer interface {
	Commit(message string) error
}

type gitCommitter struct {
	dir string
}

// NewGitCommitter creates a Committer that runs git in the given directory.
func NewGitCommitter(dir string) Committer {
	return &gitCommitter{dir: dir}
}

// Commit stages everything under the project root and commits with the
// given message. The task's completion is already persisted by the time
// this runs; a failure here is a warning for the operator, never a
// rollback trigger.
func (g *gitCommitter) Commit(message string) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}

	if out, err := g.run("add", "-A"); err != nil {
		return fmt.Errorf("git add: %w: %s", err, out)
	}
	if out, err := g.run("commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w: %s", err, out)
	}
	return nil
}

func (g *gitCommitter) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
