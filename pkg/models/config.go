package models

// ProjectConfig holds the per-project settings loaded from .phasetrack.yaml.
// Every component receives it explicitly; there is no process-wide instance.
type ProjectConfig struct {
	// DocsDir is the documentation root used by the third context-reference
	// fallback. Relative paths are resolved against the project root.
	DocsDir string
	// PhasesDir holds the per-phase task documents.
	PhasesDir string
	// ContextsDir is where scratch context files are written on start.
	ContextsDir string
	// StrictDuplicates rejects loading when the same task ID appears in
	// more than one document. When false, the first occurrence wins.
	StrictDuplicates bool
	// RelatedLimit bounds the related-task selection in enhanced context.
	RelatedLimit int
	// CrossPhaseFallback allows tasks from other phases to fill remaining
	// related-task slots when the same phase has too few candidates.
	CrossPhaseFallback bool
	// DecisionsLimit bounds the decision-history selection.
	DecisionsLimit int
}
