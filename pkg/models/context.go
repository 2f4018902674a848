package models

// ResolvedDocument is one context reference after resolution. When the
// reference could not be located, Found is false and Content is empty;
// the rendered bundle marks it NOT FOUND instead of failing assembly.
type ResolvedDocument struct {
	Ref     string
	Path    string
	Found   bool
	Content string
}

// RelatedTask is a compact excerpt of another task surfaced by the
// relevance heuristic.
type RelatedTask struct {
	ID          string
	Description string
	Output      string
	Status      TaskStatus
	Score       float64
}

// ContextBundle is the ephemeral documentation package assembled before
// work starts on a task. It is fully reconstructible from the task set and
// the documentation tree; a copy may be written to a scratch file for
// operator handoff but is never a source of truth.
type ContextBundle struct {
	TaskID      string
	Description string
	Output      string
	Resolved    []ResolvedDocument
	Related     []RelatedTask
	Rendered    string
	Warnings    []string
}
