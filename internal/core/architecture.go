package core

import (
	"fmt"
	"strings"

	"github.com/phasetrack/phasetrack/pkg/models"
)

// archComponent is one row of the fixed component table used to place a
// task inside the tracked system's architecture. The table is purely
// descriptive; nothing here inspects mutable program state.
type archComponent struct {
	Name        string
	Keywords    []string
	Description string
}

// archComponents lists the known system layers in data-flow order.
var archComponents = []archComponent{
	{
		Name:        "Interface",
		Keywords:    []string{"cli", "command", "ui", "dashboard", "web", "api", "endpoint"},
		Description: "operator-facing commands and views",
	},
	{
		Name:        "Services",
		Keywords:    []string{"service", "engine", "pipeline", "workflow", "scheduler", "worker"},
		Description: "business logic and orchestration",
	},
	{
		Name:        "Data Model",
		Keywords:    []string{"model", "schema", "types", "validation"},
		Description: "domain entities and their invariants",
	},
	{
		Name:        "Storage",
		Keywords:    []string{"storage", "store", "database", "db", "persistence", "cache", "file"},
		Description: "durable state and caching",
	},
	{
		Name:        "Integration",
		Keywords:    []string{"integration", "client", "webhook", "sync", "import", "export"},
		Description: "external systems and data exchange",
	},
	{
		Name:        "Quality",
		Keywords:    []string{"test", "tests", "testing", "qa", "benchmark", "docs", "documentation"},
		Description: "verification and documentation",
	},
}

// inferComponent matches the task's ID and description against the
// component keyword table. Returns the matched component name, or empty
// when nothing matches.
func inferComponent(task *models.Task) string {
	tokens := union(tokenize(task.ID), tokenize(task.Description))
	// Also admit short keywords like "db" or "qa" that tokenize drops.
	for _, f := range strings.FieldsFunc(strings.ToLower(task.ID+" "+task.Description), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		tokens[f] = true
	}

	for _, comp := range archComponents {
		for _, kw := range comp.Keywords {
			if tokens[kw] {
				return comp.Name
			}
		}
	}
	return ""
}

// renderArchitecture renders the component table as a layered diagram,
// marking the current task's component when one was inferred.
func renderArchitecture(current string) string {
	var sb strings.Builder
	for _, comp := range archComponents {
		marker := "   "
		if comp.Name == current {
			marker = ">>>"
		}
		sb.WriteString(fmt.Sprintf("%s [%-10s] %s\n", marker, comp.Name, comp.Description))
	}
	if current == "" {
		sb.WriteString("\nNo component inferred from the task id or description.\n")
	} else {
		sb.WriteString(fmt.Sprintf("\nThis task works on the %s layer.\n", current))
	}
	return sb.String()
}
