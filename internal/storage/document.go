// Package storage provides read/write access to the on-disk task documents:
// the legacy single-file store (tasks.yaml) and the per-phase files under
// the phases directory. The document store is pure I/O; merging and
// ownership rules live in the task repository.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phasetrack/phasetrack/pkg/models"
	"gopkg.in/yaml.v3"
)

// LegacyFileName is the single-file store consulted before any phase files.
const LegacyFileName = "tasks.yaml"

// TaskFile is the top-level structure of the legacy tasks.yaml document.
type TaskFile struct {
	Tasks []models.Task `yaml:"tasks"`
}

// PhaseFile is the top-level structure of a phase document: a phase header
// plus an ordered task sequence.
type PhaseFile struct {
	Phase models.PhaseInfo `yaml:"phase"`
	Tasks []models.Task    `yaml:"tasks"`
}

// DocumentStore defines raw access to the task documents. Missing documents
// are not errors: reads of absent files return nil.
type DocumentStore interface {
	ReadLegacy() (*TaskFile, error)
	WriteLegacy(doc *TaskFile) error
	ReadPhase(name string) (*PhaseFile, error)
	WritePhase(name string, doc *PhaseFile) error
	// ListPhaseFiles returns the phase document filenames in deterministic
	// (lexicographic) order. An absent phases directory yields nil.
	ListPhaseFiles() ([]string, error)
	// LegacyName returns the legacy document's name as recorded in task
	// source locations.
	LegacyName() string
}

type fileDocumentStore struct {
	root      string
	phasesDir string
}

// NewDocumentStore creates a DocumentStore rooted at the given project
// directory. phasesDir may be relative to the root.
func NewDocumentStore(root, phasesDir string) DocumentStore {
	if !filepath.IsAbs(phasesDir) {
		phasesDir = filepath.Join(root, phasesDir)
	}
	return &fileDocumentStore{root: root, phasesDir: phasesDir}
}

func (s *fileDocumentStore) LegacyName() string {
	return LegacyFileName
}

func (s *fileDocumentStore) legacyPath() string {
	return filepath.Join(s.root, LegacyFileName)
}

func (s *fileDocumentStore) ReadLegacy() (*TaskFile, error) {
	data, err := os.ReadFile(s.legacyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", LegacyFileName, err)
	}

	var tf TaskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("reading %s: parsing YAML: %w", LegacyFileName, err)
	}
	return &tf, nil
}

func (s *fileDocumentStore) WriteLegacy(doc *TaskFile) error {
	if err := writeYAML(s.legacyPath(), doc); err != nil {
		return fmt.Errorf("writing %s: %w", LegacyFileName, err)
	}
	return nil
}

func (s *fileDocumentStore) ReadPhase(name string) (*PhaseFile, error) {
	data, err := os.ReadFile(filepath.Join(s.phasesDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading phase file %s: %w", name, err)
	}

	var pf PhaseFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("reading phase file %s: parsing YAML: %w", name, err)
	}
	return &pf, nil
}

func (s *fileDocumentStore) WritePhase(name string, doc *PhaseFile) error {
	if err := os.MkdirAll(s.phasesDir, 0o750); err != nil {
		return fmt.Errorf("writing phase file %s: creating directory: %w", name, err)
	}
	if err := writeYAML(filepath.Join(s.phasesDir, name), doc); err != nil {
		return fmt.Errorf("writing phase file %s: %w", name, err)
	}
	return nil
}

func (s *fileDocumentStore) ListPhaseFiles() ([]string, error) {
	entries, err := os.ReadDir(s.phasesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing phase files: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// writeYAML marshals v and writes it to path atomically: the document is
// written to a temp file in the same directory and renamed into place, so
// a crash mid-write never leaves a half-written document.
func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
