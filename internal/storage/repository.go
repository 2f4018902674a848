package storage

import (
	"errors"
	"fmt"

	"github.com/phasetrack/phasetrack/pkg/models"
)

// ErrDuplicateTaskID reports a task ID that appears in more than one
// document while strict duplicate checking is enabled.
var ErrDuplicateTaskID = errors.New("duplicate task id")

// ErrStoreUnavailable wraps I/O failures reading or writing a task
// document. Callers must surface it: it implies a mutation was not made
// durable.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrInvalidDocument reports a task document that parsed as YAML but
// violates the schema, such as a task without an ID or with an unknown
// status. Malformed documents fail the load loudly instead of being
// silently patched up.
var ErrInvalidDocument = errors.New("invalid task document")

// TaskIndex is the merged, in-memory view of every task document.
// Tasks preserves deterministic load order: legacy document first, then
// phase documents sorted by filename, tasks in document order within each.
type TaskIndex struct {
	Tasks  []*models.Task
	ByID   map[string]*models.Task
	Phases []models.PhaseInfo
	// Warnings records non-fatal load anomalies, such as duplicate IDs
	// discarded under the first-wins policy.
	Warnings []string
}

// Get returns the indexed task with the given ID, or nil.
func (ix *TaskIndex) Get(taskID string) *models.Task {
	return ix.ByID[taskID]
}

// PhaseTasks returns the indexed tasks belonging to the given phase,
// in load order.
func (ix *TaskIndex) PhaseTasks(phaseID int) []*models.Task {
	var out []*models.Task
	for _, t := range ix.Tasks {
		if t.Source.PhaseID == phaseID {
			out = append(out, t)
		}
	}
	return out
}

// TaskRepository loads, merges, and indexes tasks from all documents, and
// routes mutated tasks back to the document each was loaded from.
type TaskRepository interface {
	Load() (*TaskIndex, error)
	Persist(task *models.Task) error
}

type taskRepository struct {
	store  DocumentStore
	strict bool
}

// NewTaskRepository creates a TaskRepository over the given document store.
// When strict is true, duplicate task IDs across documents fail the load;
// otherwise the first occurrence wins and later ones are discarded with a
// warning.
func NewTaskRepository(store DocumentStore, strict bool) TaskRepository {
	return &taskRepository{store: store, strict: strict}
}

// Load reads the legacy document (if present) and every phase document in
// filename order, merging their tasks into a single index. Absent documents
// yield empty results, not errors.
func (r *taskRepository) Load() (*TaskIndex, error) {
	ix := &TaskIndex{ByID: make(map[string]*models.Task)}

	legacy, err := r.store.ReadLegacy()
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w: %w", ErrStoreUnavailable, err)
	}
	if legacy != nil {
		for i := range legacy.Tasks {
			task := legacy.Tasks[i]
			task.Source = models.SourceLocation{File: r.store.LegacyName()}
			if err := r.add(ix, &task); err != nil {
				return nil, err
			}
		}
	}

	names, err := r.store.ListPhaseFiles()
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w: %w", ErrStoreUnavailable, err)
	}
	for _, name := range names {
		pf, err := r.store.ReadPhase(name)
		if err != nil {
			return nil, fmt.Errorf("loading tasks: %w: %w", ErrStoreUnavailable, err)
		}
		if pf == nil {
			continue
		}
		info := pf.Phase
		info.File = name
		info.TaskCount = len(pf.Tasks)
		ix.Phases = append(ix.Phases, info)

		for i := range pf.Tasks {
			task := pf.Tasks[i]
			task.Source = models.SourceLocation{
				File:      name,
				PhaseID:   pf.Phase.ID,
				PhaseName: pf.Phase.Name,
			}
			if err := r.add(ix, &task); err != nil {
				return nil, err
			}
		}
	}

	return ix, nil
}

// add validates and indexes one loaded task, applying the duplicate-ID
// policy. An unset status defaults to pending; that leniency is part of
// the document contract, unlike a malformed one.
func (r *taskRepository) add(ix *TaskIndex, task *models.Task) error {
	if task.ID == "" {
		return fmt.Errorf("loading tasks: %w: task with empty id in %s", ErrInvalidDocument, task.Source.File)
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	} else if !models.ValidStatuses[task.Status] {
		return fmt.Errorf("loading tasks: %w: task %q in %s has unknown status %q",
			ErrInvalidDocument, task.ID, task.Source.File, task.Status)
	}
	if prev, exists := ix.ByID[task.ID]; exists {
		if r.strict {
			return fmt.Errorf("loading tasks: %w: %q appears in %s and %s",
				ErrDuplicateTaskID, task.ID, prev.Source.File, task.Source.File)
		}
		ix.Warnings = append(ix.Warnings, fmt.Sprintf(
			"duplicate task id %q in %s ignored (first loaded from %s)",
			task.ID, task.Source.File, prev.Source.File))
		return nil
	}
	ix.Tasks = append(ix.Tasks, task)
	ix.ByID[task.ID] = task
	return nil
}

// Persist writes the mutated task back to the document it was loaded from.
// The owning document is re-read first so sibling tasks and phase metadata
// reflect any external edits, then only the matching task node is replaced
// in place and the whole document is rewritten atomically.
func (r *taskRepository) Persist(task *models.Task) error {
	if task.Source.File == "" {
		return fmt.Errorf("persisting task %s: no source location recorded", task.ID)
	}

	if task.Source.File == r.store.LegacyName() {
		return r.persistLegacy(task)
	}
	return r.persistPhase(task)
}

func (r *taskRepository) persistLegacy(task *models.Task) error {
	doc, err := r.store.ReadLegacy()
	if err != nil {
		return fmt.Errorf("persisting task %s: %w: %w", task.ID, ErrStoreUnavailable, err)
	}
	if doc == nil {
		return fmt.Errorf("persisting task %s: owning document %s no longer exists", task.ID, r.store.LegacyName())
	}

	if !replaceTask(doc.Tasks, task) {
		return fmt.Errorf("persisting task %s: task not present in %s", task.ID, r.store.LegacyName())
	}

	if err := r.store.WriteLegacy(doc); err != nil {
		return fmt.Errorf("persisting task %s: %w: %w", task.ID, ErrStoreUnavailable, err)
	}
	return nil
}

func (r *taskRepository) persistPhase(task *models.Task) error {
	name := task.Source.File
	doc, err := r.store.ReadPhase(name)
	if err != nil {
		return fmt.Errorf("persisting task %s: %w: %w", task.ID, ErrStoreUnavailable, err)
	}
	if doc == nil {
		return fmt.Errorf("persisting task %s: owning document %s no longer exists", task.ID, name)
	}

	if !replaceTask(doc.Tasks, task) {
		return fmt.Errorf("persisting task %s: task not present in %s", task.ID, name)
	}

	if err := r.store.WritePhase(name, doc); err != nil {
		return fmt.Errorf("persisting task %s: %w: %w", task.ID, ErrStoreUnavailable, err)
	}
	return nil
}

// replaceTask swaps the matching task node in place, preserving document
// order. Returns false if no node carries the task's ID.
func replaceTask(tasks []models.Task, task *models.Task) bool {
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = *task
			tasks[i].Source = models.SourceLocation{}
			return true
		}
	}
	return false
}
