package models

// PhaseInfo describes one phase of project work as declared in the header
// of a phase document. Tasks reference their phase through SourceLocation.
type PhaseInfo struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// File is the phase document's filename, used for write-back routing.
	File string `yaml:"-"`
	// TaskCount is the number of tasks loaded from this phase document.
	TaskCount int `yaml:"-"`
}
