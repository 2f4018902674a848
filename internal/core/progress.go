package core

import (
	"math"
	"sort"

	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// ProgressAggregator derives completion statistics from the merged task
// index. Pure reads; no I/O, no side effects.
type ProgressAggregator interface {
	// Summarize returns the global summary plus one entry per phase.
	Summarize() *models.ProgressReport
	// SummarizePhase restricts the summary to one phase.
	SummarizePhase(phaseID int) models.ProgressSummary
}

type progressAggregator struct {
	index *storage.TaskIndex
}

// NewProgressAggregator creates a ProgressAggregator over a loaded index.
func NewProgressAggregator(index *storage.TaskIndex) ProgressAggregator {
	return &progressAggregator{index: index}
}

func (p *progressAggregator) Summarize() *models.ProgressReport {
	report := &models.ProgressReport{
		Global: summarize(p.index.Tasks),
	}

	phases := append([]models.PhaseInfo(nil), p.index.Phases...)
	sort.Slice(phases, func(i, j int) bool { return phases[i].ID < phases[j].ID })

	for _, phase := range phases {
		report.Phases = append(report.Phases, models.PhaseProgress{
			Phase:   phase,
			Summary: summarize(p.index.PhaseTasks(phase.ID)),
		})
	}
	return report
}

func (p *progressAggregator) SummarizePhase(phaseID int) models.ProgressSummary {
	return summarize(p.index.PhaseTasks(phaseID))
}

// summarize counts tasks by status. percent_complete is completed/total,
// rounded to one decimal place, and 0 for an empty set.
func summarize(tasks []*models.Task) models.ProgressSummary {
	s := models.ProgressSummary{
		Total:  len(tasks),
		Counts: make(map[models.TaskStatus]int),
	}
	for _, t := range tasks {
		s.Counts[t.Status]++
	}
	if s.Total > 0 {
		pct := float64(s.Counts[models.StatusCompleted]) / float64(s.Total) * 100
		s.PercentComplete = math.Round(pct*10) / 10
	}
	return s
}
