package models

import "time"

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusBlocked    TaskStatus = "blocked"
)

// ValidStatuses is the set of allowed TaskStatus values.
var ValidStatuses = map[TaskStatus]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusBlocked:    true,
}

// HistoryEntry is a single append-only note on a task's timeline.
// Entries are never reordered or deleted.
type HistoryEntry struct {
	Timestamp time.Time `yaml:"timestamp"`
	Note      string    `yaml:"note"`
}

// SourceLocation records which on-disk document a task was loaded from.
// It is tracked by the repository for write-back and is never part of
// the persisted task body. PhaseID 0 means the legacy single-file store.
type SourceLocation struct {
	File      string
	PhaseID   int
	PhaseName string
}

// Task represents a unit of work tracked across the project's task documents.
// The ID is unique across all phases and immutable after creation.
type Task struct {
	ID                 string         `yaml:"id"`
	Description        string         `yaml:"description"`
	Status             TaskStatus     `yaml:"status"`
	Context            []string       `yaml:"context,omitempty"`
	Output             string         `yaml:"output,omitempty"`
	Tests              string         `yaml:"tests,omitempty"`
	AcceptanceCriteria []string       `yaml:"acceptance_criteria,omitempty"`
	Notes              []HistoryEntry `yaml:"notes,omitempty"`
	Updated            time.Time      `yaml:"updated,omitempty"`

	Source SourceLocation `yaml:"-"`
}

// Clone returns a deep copy of the task. Mutating the copy never touches
// the original's slices.
func (t *Task) Clone() *Task {
	c := *t
	c.Context = append([]string(nil), t.Context...)
	c.AcceptanceCriteria = append([]string(nil), t.AcceptanceCriteria...)
	c.Notes = append([]HistoryEntry(nil), t.Notes...)
	return &c
}
