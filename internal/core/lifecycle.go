package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// ErrTaskNotFound reports a task ID absent from the merged index.
var ErrTaskNotFound = errors.New("task not found")

// Boilerplate notes appended by the lifecycle convenience operations.
// The assembler's decision-history filter relies on these prefixes.
const (
	NoteStarted     = "Task started"
	NoteCommitted   = "Task committed: "
	NoteBlocked     = "Blocked: "
	NoteUnblocked   = "Unblocked"
	noteForcePrefix = "Status set to "
)

// TaskRepo is the subset of storage.TaskRepository the controller needs.
type TaskRepo interface {
	Persist(task *models.Task) error
}

// LifecycleController applies status transitions. It never rejects a
// transition based on the current state: the tool assists the operator, it
// does not gate them. Its contract is that every status change appends
// exactly one history entry and bumps the update timestamp, and that the
// in-memory index only reflects changes that were made durable.
type LifecycleController interface {
	Apply(taskID string, status models.TaskStatus, note string) (*models.Task, error)
	Start(taskID string) (*models.Task, error)
	Commit(taskID, message string) (*models.Task, error)
	Block(taskID, reason string) (*models.Task, error)
	Unblock(taskID string) (*models.Task, error)
}

type lifecycleController struct {
	repo  TaskRepo
	index *storage.TaskIndex
	now   func() time.Time
}

// NewLifecycleController creates a LifecycleController over a loaded index.
func NewLifecycleController(repo TaskRepo, index *storage.TaskIndex) LifecycleController {
	return &lifecycleController{
		repo:  repo,
		index: index,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Apply sets the task's status, appending the given history note. An empty
// note falls back to a generic one so the append-per-change invariant
// holds. The mutation is persisted before the index is updated; on persist
// failure the index is left untouched and the error surfaces to the caller.
func (c *lifecycleController) Apply(taskID string, status models.TaskStatus, note string) (*models.Task, error) {
	task := c.index.Get(taskID)
	if task == nil {
		return nil, fmt.Errorf("applying status %s: %w: %s", status, ErrTaskNotFound, taskID)
	}

	if note == "" {
		note = noteForcePrefix + string(status)
	}

	updated := c.bumpClock(task.Updated)

	mutated := task.Clone()
	mutated.Status = status
	mutated.Updated = updated
	mutated.Notes = append(mutated.Notes, models.HistoryEntry{
		Timestamp: updated,
		Note:      note,
	})

	if err := c.repo.Persist(mutated); err != nil {
		return nil, fmt.Errorf("applying status %s to %s: %w", status, taskID, err)
	}

	// Durable; reflect the change in the shared index.
	*task = *mutated
	return task, nil
}

// Start moves a task to in-progress.
func (c *lifecycleController) Start(taskID string) (*models.Task, error) {
	return c.Apply(taskID, models.StatusInProgress, NoteStarted)
}

// Commit marks a task completed. An empty message defaults to
// "Complete task: <id>". Re-committing an already completed task appends a
// fresh history entry rather than deduplicating.
func (c *lifecycleController) Commit(taskID, message string) (*models.Task, error) {
	if message == "" {
		message = "Complete task: " + taskID
	}
	return c.Apply(taskID, models.StatusCompleted, NoteCommitted+message)
}

// Block marks a task blocked with the given reason.
func (c *lifecycleController) Block(taskID, reason string) (*models.Task, error) {
	return c.Apply(taskID, models.StatusBlocked, NoteBlocked+reason)
}

// Unblock returns a blocked task to in-progress.
func (c *lifecycleController) Unblock(taskID string) (*models.Task, error) {
	return c.Apply(taskID, models.StatusInProgress, NoteUnblocked)
}

// bumpClock returns the current time, nudged forward when the wall clock
// has not advanced past the previous update so the timestamp stays
// strictly monotonic per task.
func (c *lifecycleController) bumpClock(prev time.Time) time.Time {
	now := c.now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
