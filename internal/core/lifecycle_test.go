package core

import (
	"errors"
	"testing"
	"time"

	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// stubRepo records persisted tasks and can be set to fail.
type stubRepo struct {
	persisted []*models.Task
	failWith  error
}

func (r *stubRepo) Persist(task *models.Task) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.persisted = append(r.persisted, task)
	return nil
}

func newTestIndex(tasks ...*models.Task) *storage.TaskIndex {
	ix := &storage.TaskIndex{ByID: make(map[string]*models.Task)}
	for _, t := range tasks {
		ix.Tasks = append(ix.Tasks, t)
		ix.ByID[t.ID] = t
	}
	return ix
}

func sampleTask(id string) *models.Task {
	return &models.Task{
		ID:          id,
		Description: "work on " + id,
		Status:      models.StatusPending,
		Source:      models.SourceLocation{File: "phase1.yaml", PhaseID: 1, PhaseName: "Foundation"},
	}
}

func TestStart_MarksInProgressAndAppendsHistory(t *testing.T) {
	task := sampleTask("1.1")
	repo := &stubRepo{}
	lc := NewLifecycleController(repo, newTestIndex(task))

	got, err := lc.Start("1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != models.StatusInProgress {
		t.Fatalf("expected in-progress, got %q", got.Status)
	}
	if len(got.Notes) != 1 || got.Notes[0].Note != NoteStarted {
		t.Fatalf("expected one started note, got %+v", got.Notes)
	}
	if got.Updated.IsZero() {
		t.Fatal("expected updated timestamp to be set")
	}
	if got.Notes[0].Timestamp != got.Updated {
		t.Fatal("history timestamp should match the task's updated time")
	}
	if len(repo.persisted) != 1 {
		t.Fatalf("expected 1 persist call, got %d", len(repo.persisted))
	}
}

func TestCommit_DefaultMessage(t *testing.T) {
	task := sampleTask("1.1")
	lc := NewLifecycleController(&stubRepo{}, newTestIndex(task))

	got, err := lc.Commit("1.1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
	if want := NoteCommitted + "Complete task: 1.1"; got.Notes[0].Note != want {
		t.Fatalf("expected note %q, got %q", want, got.Notes[0].Note)
	}
}

func TestCommit_AlreadyCompletedAppendsAgain(t *testing.T) {
	task := sampleTask("1.1")
	lc := NewLifecycleController(&stubRepo{}, newTestIndex(task))

	if _, err := lc.Commit("1.1", "first pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := lc.Commit("1.1", "second pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
	if len(got.Notes) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(got.Notes))
	}
}

func TestBlockUnblock(t *testing.T) {
	task := sampleTask("1.1")
	lc := NewLifecycleController(&stubRepo{}, newTestIndex(task))

	got, err := lc.Block("1.1", "waiting on schema review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusBlocked {
		t.Fatalf("expected blocked, got %q", got.Status)
	}
	if want := NoteBlocked + "waiting on schema review"; got.Notes[0].Note != want {
		t.Fatalf("expected note %q, got %q", want, got.Notes[0].Note)
	}

	got, err = lc.Unblock("1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusInProgress {
		t.Fatalf("expected in-progress after unblock, got %q", got.Status)
	}
	if len(got.Notes) != 2 || got.Notes[1].Note != NoteUnblocked {
		t.Fatalf("expected unblocked note appended, got %+v", got.Notes)
	}
}

func TestApply_EmptyNoteFallsBack(t *testing.T) {
	task := sampleTask("1.1")
	lc := NewLifecycleController(&stubRepo{}, newTestIndex(task))

	got, err := lc.Apply("1.1", models.StatusBlocked, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Notes[0].Note != "Status set to blocked" {
		t.Fatalf("expected generic note, got %q", got.Notes[0].Note)
	}
}

func TestApply_UnknownTask(t *testing.T) {
	lc := NewLifecycleController(&stubRepo{}, newTestIndex())

	_, err := lc.Apply("missing", models.StatusCompleted, "")
	if err == nil {
		t.Fatal("expected error for unknown task")
	}
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestApply_PersistFailureLeavesIndexUntouched(t *testing.T) {
	task := sampleTask("1.1")
	repo := &stubRepo{failWith: errors.New("disk full")}
	lc := NewLifecycleController(repo, newTestIndex(task))

	_, err := lc.Apply("1.1", models.StatusCompleted, "done")
	if err == nil {
		t.Fatal("expected error from failed persist")
	}

	if task.Status != models.StatusPending {
		t.Fatalf("index mutated despite persist failure: %q", task.Status)
	}
	if len(task.Notes) != 0 {
		t.Fatalf("history mutated despite persist failure: %+v", task.Notes)
	}
}

func TestApply_TimestampMonotonicUnderFrozenClock(t *testing.T) {
	task := sampleTask("1.1")
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lc := NewLifecycleController(&stubRepo{}, newTestIndex(task)).(*lifecycleController)
	lc.now = func() time.Time { return frozen }

	var prev time.Time
	for i := 0; i < 5; i++ {
		got, err := lc.Apply("1.1", models.StatusInProgress, "tick")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Updated.After(prev) {
			t.Fatalf("updated not strictly monotonic: %v then %v", prev, got.Updated)
		}
		prev = got.Updated
	}
}
