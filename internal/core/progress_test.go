package core

import (
	"testing"

	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

func phaseTask(id string, phase int, status models.TaskStatus) *models.Task {
	return &models.Task{
		ID:     id,
		Status: status,
		Source: models.SourceLocation{File: "phaseN.yaml", PhaseID: phase},
	}
}

func TestSummarize_EmptyIndex(t *testing.T) {
	agg := NewProgressAggregator(newTestIndex())

	report := agg.Summarize()
	if report.Global.Total != 0 {
		t.Fatalf("expected 0 tasks, got %d", report.Global.Total)
	}
	if report.Global.PercentComplete != 0 {
		t.Fatalf("expected 0%% for empty set, got %v", report.Global.PercentComplete)
	}
}

func TestSummarize_Rounding(t *testing.T) {
	// 4 of 7 completed is 57.142857...%, which rounds to 57.1.
	tasks := []*models.Task{
		phaseTask("1", 1, models.StatusCompleted),
		phaseTask("2", 1, models.StatusCompleted),
		phaseTask("3", 1, models.StatusCompleted),
		phaseTask("4", 1, models.StatusCompleted),
		phaseTask("5", 1, models.StatusPending),
		phaseTask("6", 1, models.StatusInProgress),
		phaseTask("7", 1, models.StatusBlocked),
	}
	agg := NewProgressAggregator(newTestIndex(tasks...))

	report := agg.Summarize()
	if report.Global.PercentComplete != 57.1 {
		t.Fatalf("expected 57.1, got %v", report.Global.PercentComplete)
	}
	if report.Global.Counts[models.StatusCompleted] != 4 {
		t.Fatalf("expected 4 completed, got %d", report.Global.Counts[models.StatusCompleted])
	}
	if report.Global.Counts[models.StatusBlocked] != 1 {
		t.Fatalf("expected 1 blocked, got %d", report.Global.Counts[models.StatusBlocked])
	}
}

func TestSummarize_PhasesSortedByID(t *testing.T) {
	ix := &storage.TaskIndex{
		ByID: make(map[string]*models.Task),
		Phases: []models.PhaseInfo{
			{ID: 3, Name: "Polish"},
			{ID: 1, Name: "Foundation"},
			{ID: 2, Name: "Engine"},
		},
	}
	for _, task := range []*models.Task{
		phaseTask("1.1", 1, models.StatusCompleted),
		phaseTask("2.1", 2, models.StatusPending),
		phaseTask("3.1", 3, models.StatusPending),
	} {
		ix.Tasks = append(ix.Tasks, task)
		ix.ByID[task.ID] = task
	}

	report := NewProgressAggregator(ix).Summarize()
	if len(report.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(report.Phases))
	}
	for i, want := range []int{1, 2, 3} {
		if report.Phases[i].Phase.ID != want {
			t.Fatalf("phases not sorted by ID: %+v", report.Phases)
		}
	}
	if report.Phases[0].Summary.PercentComplete != 100 {
		t.Fatalf("expected phase 1 at 100%%, got %v", report.Phases[0].Summary.PercentComplete)
	}
}

func TestSummarizePhase(t *testing.T) {
	tasks := []*models.Task{
		phaseTask("1.1", 1, models.StatusCompleted),
		phaseTask("1.2", 1, models.StatusPending),
		phaseTask("2.1", 2, models.StatusCompleted),
	}
	agg := NewProgressAggregator(newTestIndex(tasks...))

	got := agg.SummarizePhase(1)
	if got.Total != 2 {
		t.Fatalf("expected 2 tasks in phase 1, got %d", got.Total)
	}
	if got.PercentComplete != 50 {
		t.Fatalf("expected 50%%, got %v", got.PercentComplete)
	}
}
