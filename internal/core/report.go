package core

import (
	"bytes"
	"text/template"
	"time"

	"github.com/phasetrack/phasetrack/pkg/models"
)

// HandoffReport is the externally shareable summary of a task's outcome,
// produced after a status change for session handoff.
type HandoffReport struct {
	TaskID      string
	PhaseID     int
	PhaseName   string
	Status      string
	Summary     string
	Output      string
	GeneratedAt time.Time
}

var handoffTemplate = template.Must(template.New("handoff").Parse(`==================================================
STATUS REPORT - SESSION HANDOFF
==================================================
Task:    {{.TaskID}}
Phase:   {{.PhaseID}} - {{if .PhaseName}}{{.PhaseName}}{{else}}Legacy{{end}}
Status:  {{.Status}}
Summary: {{.Summary}}
{{- if .Output}}
Expected Output: {{.Output}}
{{- end}}
Generated: {{.GeneratedAt.Format "2006-01-02T15:04:05Z"}}
==================================================
`))

// RenderHandoffReport renders the handoff report for a task and outcome.
func RenderHandoffReport(task *models.Task, status, summary string) (string, error) {
	report := HandoffReport{
		TaskID:      task.ID,
		PhaseID:     task.Source.PhaseID,
		PhaseName:   task.Source.PhaseName,
		Status:      status,
		Summary:     summary,
		Output:      task.Output,
		GeneratedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	if err := handoffTemplate.Execute(&buf, &report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
