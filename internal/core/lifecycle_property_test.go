package core

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/phasetrack/phasetrack/pkg/models"
)

var lifecycleStatuses = []models.TaskStatus{
	models.StatusPending,
	models.StatusInProgress,
	models.StatusCompleted,
	models.StatusBlocked,
}

// For any sequence of status applications, every application appends exactly
// one history entry, the entry timestamps strictly increase, existing entries
// are never rewritten, and the final status equals the last applied one.
func TestProperty_HistoryAppendOnly(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ops := rapid.SliceOfN(rapid.IntRange(0, len(lifecycleStatuses)-1), 1, 20).Draw(rt, "ops")

		task := sampleTask("prop-1")
		lc := NewLifecycleController(&stubRepo{}, newTestIndex(task))

		var lastStatus models.TaskStatus
		var seen []models.HistoryEntry
		for i, op := range ops {
			status := lifecycleStatuses[op]
			got, err := lc.Apply("prop-1", status, "")
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			lastStatus = status

			if len(got.Notes) != i+1 {
				t.Fatalf("expected %d history entries after %d ops, got %d", i+1, i+1, len(got.Notes))
			}
			for j, prev := range seen {
				if got.Notes[j] != prev {
					t.Fatalf("history entry %d rewritten: %+v vs %+v", j, prev, got.Notes[j])
				}
			}
			if i > 0 && !got.Notes[i].Timestamp.After(got.Notes[i-1].Timestamp) {
				t.Fatalf("timestamps not strictly increasing: %v then %v",
					got.Notes[i-1].Timestamp, got.Notes[i].Timestamp)
			}
			seen = append([]models.HistoryEntry(nil), got.Notes...)
		}

		if task.Status != lastStatus {
			t.Fatalf("expected final status %q, got %q", lastStatus, task.Status)
		}
	})
}
