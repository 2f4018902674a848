// Package mcp provides an MCP (Model Context Protocol) server that exposes
// phasetrack functionality as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/phasetrack/phasetrack/internal/core"
	"github.com/phasetrack/phasetrack/internal/storage"
	"github.com/phasetrack/phasetrack/pkg/models"
)

// Server wraps phasetrack services and exposes them as MCP tools.
// Task documents are reloaded on every call so edits made outside the
// server are picked up.
type Server struct {
	server *gomcp.Server
	root   string
	cfg    *models.ProjectConfig
	repo   storage.TaskRepository
}

// NewServer creates a new MCP server over the given repository.
func NewServer(root string, cfg *models.ProjectConfig, repo storage.TaskRepository, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		root: root,
		cfg:  cfg,
		repo: repo,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "phasetrack", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier (e.g. 3.2)"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Phase       int      `json:"phase"`
	PhaseName   string   `json:"phase_name,omitempty"`
	Output      string   `json:"output,omitempty"`
	Tests       string   `json:"tests,omitempty"`
	Acceptance  []string `json:"acceptance_criteria,omitempty"`
	Context     []string `json:"context,omitempty"`
	Updated     string   `json:"updated,omitempty"`
	LastNote    string   `json:"last_note,omitempty"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter tasks by status (pending, in-progress, completed, blocked)"`
	Phase  int    `json:"phase,omitempty" jsonschema:"filter tasks by phase number"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type startTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type startTaskOutput struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type completeTaskInput struct {
	TaskID  string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Message string `json:"message,omitempty" jsonschema:"completion note recorded in the task history"`
}

type completeTaskOutput struct {
	Message string `json:"message"`
}

type blockTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Reason string `json:"reason" jsonschema:"required,why the task is blocked"`
}

type blockTaskOutput struct {
	Message string `json:"message"`
}

type getProgressInput struct{}

type phaseProgressOutput struct {
	Phase           int     `json:"phase"`
	Name            string  `json:"name,omitempty"`
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	Blocked         int     `json:"blocked"`
	PercentComplete float64 `json:"percent_complete"`
}

type getProgressOutput struct {
	Total           int                   `json:"total"`
	Counts          map[string]int        `json:"counts"`
	PercentComplete float64               `json:"percent_complete"`
	Phases          []phaseProgressOutput `json:"phases"`
}

type previewContextInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Basic  bool   `json:"basic,omitempty" jsonschema:"skip related tasks, architecture, and decision history"`
}

type previewContextOutput struct {
	Context  string   `json:"context"`
	Warnings []string `json:"warnings,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID. Returns status, phase, acceptance criteria, and the latest history note.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional status and phase filters. Returns an array of task summaries.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "start_task",
		Description: "Mark a task in-progress and return its assembled context bundle.",
	}, s.handleStartTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task completed, recording an optional completion message in its history.",
	}, s.handleCompleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "block_task",
		Description: "Mark a task blocked with a reason recorded in its history.",
	}, s.handleBlockTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_progress",
		Description: "Get global and per-phase completion statistics derived from current task statuses.",
	}, s.handleGetProgress)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "preview_context",
		Description: "Assemble and return the context bundle for a task without changing its status.",
	}, s.handlePreviewContext)
}

// --- Tool handlers ---

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), taskOutput{}, nil
	}

	task := index.Get(input.TaskID)
	if task == nil {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{Tasks: []taskOutput{}}
	for _, t := range index.Tasks {
		if input.Status != "" && t.Status != models.TaskStatus(input.Status) {
			continue
		}
		if input.Phase != 0 && t.Source.PhaseID != input.Phase {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)

	return nil, out, nil
}

func (s *Server) handleStartTask(_ context.Context, _ *gomcp.CallToolRequest, input startTaskInput) (*gomcp.CallToolResult, startTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), startTaskOutput{}, nil
	}

	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), startTaskOutput{}, nil
	}

	lc := core.NewLifecycleController(s.repo, index)
	task, err := lc.Start(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("starting task %s: %s", input.TaskID, err)), startTaskOutput{}, nil
	}

	asm := core.NewContextAssembler(s.root, s.cfg, index, core.NewLexicalScorer())
	bundle, err := asm.Assemble(input.TaskID, core.ModeEnhanced)
	if err != nil {
		return errorResult(fmt.Sprintf("assembling context for %s: %s", input.TaskID, err)), startTaskOutput{}, nil
	}

	out := startTaskOutput{
		Message: fmt.Sprintf("task %s marked in-progress", task.ID),
		Context: bundle.Rendered,
	}
	return nil, out, nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input completeTaskInput) (*gomcp.CallToolResult, completeTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), completeTaskOutput{}, nil
	}

	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), completeTaskOutput{}, nil
	}

	lc := core.NewLifecycleController(s.repo, index)
	task, err := lc.Commit(input.TaskID, input.Message)
	if err != nil {
		return errorResult(fmt.Sprintf("completing task %s: %s", input.TaskID, err)), completeTaskOutput{}, nil
	}

	out := completeTaskOutput{
		Message: fmt.Sprintf("task %s marked completed", task.ID),
	}
	return nil, out, nil
}

func (s *Server) handleBlockTask(_ context.Context, _ *gomcp.CallToolRequest, input blockTaskInput) (*gomcp.CallToolResult, blockTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), blockTaskOutput{}, nil
	}
	if input.Reason == "" {
		return errorResult("reason is required"), blockTaskOutput{}, nil
	}

	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), blockTaskOutput{}, nil
	}

	lc := core.NewLifecycleController(s.repo, index)
	task, err := lc.Block(input.TaskID, input.Reason)
	if err != nil {
		return errorResult(fmt.Sprintf("blocking task %s: %s", input.TaskID, err)), blockTaskOutput{}, nil
	}

	out := blockTaskOutput{
		Message: fmt.Sprintf("task %s marked blocked: %s", task.ID, input.Reason),
	}
	return nil, out, nil
}

func (s *Server) handleGetProgress(_ context.Context, _ *gomcp.CallToolRequest, _ getProgressInput) (*gomcp.CallToolResult, getProgressOutput, error) {
	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), getProgressOutput{}, nil
	}

	report := core.NewProgressAggregator(index).Summarize()

	out := getProgressOutput{
		Total:           report.Global.Total,
		Counts:          make(map[string]int, len(report.Global.Counts)),
		PercentComplete: report.Global.PercentComplete,
		Phases:          make([]phaseProgressOutput, len(report.Phases)),
	}
	for status, n := range report.Global.Counts {
		out.Counts[string(status)] = n
	}
	for i, p := range report.Phases {
		out.Phases[i] = phaseProgressOutput{
			Phase:           p.Phase.ID,
			Name:            p.Phase.Name,
			Total:           p.Summary.Total,
			Completed:       p.Summary.Counts[models.StatusCompleted],
			Blocked:         p.Summary.Counts[models.StatusBlocked],
			PercentComplete: p.Summary.PercentComplete,
		}
	}

	return nil, out, nil
}

func (s *Server) handlePreviewContext(_ context.Context, _ *gomcp.CallToolRequest, input previewContextInput) (*gomcp.CallToolResult, previewContextOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), previewContextOutput{}, nil
	}

	index, err := s.repo.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), previewContextOutput{}, nil
	}

	mode := core.ModeEnhanced
	if input.Basic {
		mode = core.ModeBasic
	}

	asm := core.NewContextAssembler(s.root, s.cfg, index, core.NewLexicalScorer())
	bundle, err := asm.Assemble(input.TaskID, mode)
	if err != nil {
		return errorResult(fmt.Sprintf("assembling context for %s: %s", input.TaskID, err)), previewContextOutput{}, nil
	}

	out := previewContextOutput{
		Context:  bundle.Rendered,
		Warnings: bundle.Warnings,
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Description: t.Description,
		Status:      string(t.Status),
		Phase:       t.Source.PhaseID,
		PhaseName:   t.Source.PhaseName,
		Output:      t.Output,
		Tests:       t.Tests,
		Acceptance:  t.AcceptanceCriteria,
		Context:     t.Context,
	}
	if !t.Updated.IsZero() {
		out.Updated = t.Updated.Format(time.RFC3339)
	}
	if n := len(t.Notes); n > 0 {
		out.LastNote = t.Notes[n-1].Note
	}
	return out
}

// errorResult builds a CallToolResult carrying an error message, following
// the MCP convention of reporting tool-level failures in-band rather than
// as protocol errors.
func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		IsError: true,
		Content: []gomcp.Content{
			&gomcp.TextContent{Text: msg},
		},
	}
}
