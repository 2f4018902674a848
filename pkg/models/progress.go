package models

// ProgressSummary is a derived, never-persisted snapshot of completion
// statistics over some scope (one phase or the whole project).
type ProgressSummary struct {
	Total           int
	Counts          map[TaskStatus]int
	PercentComplete float64
}

// PhaseProgress pairs a phase with its progress summary.
type PhaseProgress struct {
	Phase   PhaseInfo
	Summary ProgressSummary
}

// ProgressReport holds the global summary plus one entry per phase,
// ordered by phase ID.
type ProgressReport struct {
	Global ProgressSummary
	Phases []PhaseProgress
}
