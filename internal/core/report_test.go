package core

import (
	"strings"
	"testing"

	"github.com/phasetrack/phasetrack/pkg/models"
)

func TestRenderHandoffReport(t *testing.T) {
	task := sampleTask("1.2")
	task.Output = "internal/storage/document.go"

	out, err := RenderHandoffReport(task, "Completed", "Store finished with atomic writes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"STATUS REPORT - SESSION HANDOFF",
		"Task:    1.2",
		"Phase:   1 - Foundation",
		"Status:  Completed",
		"Summary: Store finished with atomic writes",
		"Expected Output: internal/storage/document.go",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHandoffReport_LegacyTask(t *testing.T) {
	task := &models.Task{ID: "0.1", Description: "legacy work", Status: models.StatusBlocked}

	out, err := RenderHandoffReport(task, "Blocked", "waiting on infra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Phase:   0 - Legacy") {
		t.Fatalf("expected legacy phase label:\n%s", out)
	}
	if strings.Contains(out, "Expected Output:") {
		t.Fatalf("empty output must be omitted:\n%s", out)
	}
}
