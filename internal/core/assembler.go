package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// AssembleMode selects how much context the assembler gathers.
type AssembleMode string

const (
	ModeBasic    AssembleMode = "basic"
	ModeEnhanced AssembleMode = "enhanced"
)

// ContextAssembler builds the documentation bundle handed to whoever picks
// up a task, human or LLM. Missing references degrade to inline NOT FOUND
// markers; only a missing task fails the assembly.
type ContextAssembler interface {
	Assemble(taskID string, mode AssembleMode) (*models.ContextBundle, error)
}

type contextAssembler struct {
	root   string
	cfg    *models.ProjectConfig
	index  *storage.TaskIndex
	scorer RelevanceScorer
}

// NewContextAssembler creates a ContextAssembler over a loaded index.
func NewContextAssembler(root string, cfg *models.ProjectConfig, index *storage.TaskIndex, scorer RelevanceScorer) ContextAssembler {
	return &contextAssembler{root: root, cfg: cfg, index: index, scorer: scorer}
}

// Assemble resolves the task's context references and renders the bundle.
// Enhanced mode adds related tasks, the architecture section, and decision
// history drawn from the same phase.
func (a *contextAssembler) Assemble(taskID string, mode AssembleMode) (*models.ContextBundle, error) {
	task := a.index.Get(taskID)
	if task == nil {
		return nil, fmt.Errorf("assembling context: %w: %s", ErrTaskNotFound, taskID)
	}

	bundle := &models.ContextBundle{
		TaskID:      task.ID,
		Description: task.Description,
		Output:      task.Output,
	}

	for _, ref := range task.Context {
		doc := a.resolveRef(ref)
		if !doc.Found {
			bundle.Warnings = append(bundle.Warnings, fmt.Sprintf("context reference not found: %s", ref))
		}
		bundle.Resolved = append(bundle.Resolved, doc)
	}

	if mode == ModeEnhanced {
		bundle.Related = a.relatedTasks(task)
	}

	bundle.Rendered = a.render(task, bundle, mode)
	return bundle, nil
}

// resolveRef locates one context reference, trying in order: absolute
// path, project-root-relative path, and docs-root-relative path with a
// leading "docs/" prefix stripped. A "#fragment" suffix narrows the
// content to the matching markdown section.
func (a *contextAssembler) resolveRef(ref string) models.ResolvedDocument {
	path := ref
	fragment := ""
	if idx := strings.Index(ref, "#"); idx >= 0 {
		path = ref[:idx]
		fragment = ref[idx+1:]
	}

	docsDir := a.cfg.DocsDir
	if !filepath.IsAbs(docsDir) {
		docsDir = filepath.Join(a.root, docsDir)
	}

	candidates := []string{}
	if filepath.IsAbs(path) {
		candidates = append(candidates, path)
	} else {
		candidates = append(candidates,
			filepath.Join(a.root, path),
			filepath.Join(docsDir, strings.TrimPrefix(path, "docs/")),
		)
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(candidate) //nolint:gosec // G304: reading operator-declared context references
		if err != nil {
			continue
		}
		content := string(data)
		if fragment != "" {
			content = extractSection(content, fragment)
		}
		return models.ResolvedDocument{Ref: ref, Path: candidate, Found: true, Content: content}
	}

	return models.ResolvedDocument{Ref: ref}
}

// extractSection narrows markdown content to the section whose heading
// contains the fragment, up to the next heading of the same or higher
// level. When no heading matches, the whole content is returned: partial
// context beats none.
func extractSection(content, fragment string) string {
	lines := strings.Split(content, "\n")
	needle := strings.ToLower(fragment)

	start := -1
	level := 0
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(strings.ToLower(line), needle) {
			start = i
			level = headingLevel(line)
			break
		}
	}
	if start < 0 {
		return content
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "#") && headingLevel(lines[i]) <= level {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n")
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n
}

// relatedTasks ranks other tasks by the relevance scorer, restricted to
// the same phase unless the cross-phase fallback is enabled and the phase
// has too few candidates. Pending tasks with no history carry nothing
// useful to relate to and are skipped. Ordering is deterministic: score
// descending, then most recently updated, then ID.
func (a *contextAssembler) relatedTasks(task *models.Task) []models.RelatedTask {
	limit := a.cfg.RelatedLimit
	if limit <= 0 {
		return nil
	}

	samePhase := a.rankCandidates(task, func(c *models.Task) bool {
		return c.Source.PhaseID == task.Source.PhaseID
	})

	picked := samePhase
	if len(picked) < limit && a.cfg.CrossPhaseFallback {
		others := a.rankCandidates(task, func(c *models.Task) bool {
			return c.Source.PhaseID != task.Source.PhaseID
		})
		picked = append(picked, others...)
	}

	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}

func (a *contextAssembler) rankCandidates(task *models.Task, keep func(*models.Task) bool) []models.RelatedTask {
	type scored struct {
		task  *models.Task
		score float64
	}

	var candidates []scored
	for _, c := range a.index.Tasks {
		if c.ID == task.ID || !keep(c) {
			continue
		}
		if c.Status == models.StatusPending && len(c.Notes) == 0 {
			continue
		}
		score := a.scorer.Score(task, c)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{task: c, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].task.Updated.Equal(candidates[j].task.Updated) {
			return candidates[i].task.Updated.After(candidates[j].task.Updated)
		}
		return candidates[i].task.ID < candidates[j].task.ID
	})

	out := make([]models.RelatedTask, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.RelatedTask{
			ID:          c.task.ID,
			Description: c.task.Description,
			Output:      c.task.Output,
			Status:      c.task.Status,
			Score:       c.score,
		})
	}
	return out
}

// decisionEntry pairs a history note with the task it came from.
type decisionEntry struct {
	taskID string
	entry  models.HistoryEntry
}

// decisionHistory collects non-boilerplate history notes from the task's
// phase, newest first, bounded by the configured limit. Auto-generated
// start/commit/force notes are noise; blocked reasons and free-form notes
// are rationale worth surfacing.
func (a *contextAssembler) decisionHistory(task *models.Task) []decisionEntry {
	limit := a.cfg.DecisionsLimit
	if limit <= 0 {
		return nil
	}

	var entries []decisionEntry
	for _, t := range a.index.PhaseTasks(task.Source.PhaseID) {
		for _, n := range t.Notes {
			if isBoilerplateNote(n.Note) {
				continue
			}
			entries = append(entries, decisionEntry{taskID: t.ID, entry: n})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].entry.Timestamp.After(entries[j].entry.Timestamp)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func isBoilerplateNote(note string) bool {
	return note == NoteStarted ||
		note == NoteUnblocked ||
		strings.HasPrefix(note, NoteCommitted) ||
		strings.HasPrefix(note, noteForcePrefix)
}

// render produces the bundle text in fixed section order: header, related
// tasks, architecture, decision history, resolved reference dump.
func (a *contextAssembler) render(task *models.Task, bundle *models.ContextBundle, mode AssembleMode) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Context for Task: %s\n\n", task.ID))
	if task.Source.PhaseID != 0 || task.Source.PhaseName != "" {
		sb.WriteString(fmt.Sprintf("**Phase:** %d - %s\n", task.Source.PhaseID, phaseLabel(task.Source)))
	}
	sb.WriteString(fmt.Sprintf("**Status:** %s\n", task.Status))
	sb.WriteString(fmt.Sprintf("**Description:** %s\n\n", task.Description))
	sb.WriteString(fmt.Sprintf("**Expected Output:** %s\n\n", orText(task.Output, "Not specified")))
	if task.Tests != "" {
		sb.WriteString(fmt.Sprintf("**Tests:** %s\n\n", task.Tests))
	}
	if len(task.AcceptanceCriteria) > 0 {
		sb.WriteString("**Acceptance Criteria:**\n")
		for _, c := range task.AcceptanceCriteria {
			sb.WriteString(fmt.Sprintf("- %s\n", c))
		}
		sb.WriteString("\n")
	}

	if mode == ModeEnhanced {
		sb.WriteString("## Related Tasks\n\n")
		if len(bundle.Related) == 0 {
			sb.WriteString("No related tasks found.\n\n")
		} else {
			for _, r := range bundle.Related {
				sb.WriteString(fmt.Sprintf("- %s [%s] %s", r.ID, r.Status, r.Description))
				if r.Output != "" {
					sb.WriteString(fmt.Sprintf(" (output: %s)", r.Output))
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}

		sb.WriteString("## Architecture\n\n")
		sb.WriteString(renderArchitecture(inferComponent(task)))
		sb.WriteString("\n")

		sb.WriteString("## Decision History\n\n")
		decisions := a.decisionHistory(task)
		if len(decisions) == 0 {
			sb.WriteString("No decisions recorded in this phase.\n\n")
		} else {
			for _, d := range decisions {
				sb.WriteString(fmt.Sprintf("- [%s] %s: %s\n",
					d.entry.Timestamp.Format("2006-01-02"), d.taskID, d.entry.Note))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Context Documentation\n\n")
	if len(bundle.Resolved) == 0 {
		sb.WriteString("No context files specified.\n")
	}
	for _, doc := range bundle.Resolved {
		if doc.Found {
			sb.WriteString(fmt.Sprintf("=== %s ===\n%s\n\n", doc.Ref, doc.Content))
		} else {
			sb.WriteString(fmt.Sprintf("=== %s (NOT FOUND) ===\n\n", doc.Ref))
		}
	}

	return sb.String()
}

func phaseLabel(src models.SourceLocation) string {
	if src.PhaseName != "" {
		return src.PhaseName
	}
	return "Unnamed Phase"
}

func orText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
