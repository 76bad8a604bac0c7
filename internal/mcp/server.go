// Package mcp provides an MCP (Model Context Protocol) server that
// exposes the task store and the email ingestion pipeline as tools for
// AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/mailtask/internal/core"
	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/internal/storage"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Server wraps mailtask services and exposes them as MCP tools.
type Server struct {
	server   *gomcp.Server
	store    storage.TaskStore
	pipeline core.IngestPipeline
}

// NewServer creates an MCP server over the given store and pipeline.
func NewServer(store storage.TaskStore, pipeline core.IngestPipeline, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:    store,
		pipeline: pipeline,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "mailtask", Version: version},
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

type listTasksInput struct {
	Status   string `json:"status,omitempty" jsonschema:"filter tasks by status (pending, done)"`
	Category string `json:"category,omitempty" jsonschema:"filter tasks by category (Work, Personal, Academic, Urgent, Low Priority)"`
}

type taskOutput struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	Sender      string `json:"sender"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	Subject     string `json:"subject"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type completeTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type completeTaskOutput struct {
	Message string `json:"message"`
}

type ingestEmailInput struct {
	Subject string `json:"subject" jsonschema:"required,the email subject line"`
	Body    string `json:"body" jsonschema:"required,the plain-text email body"`
	Sender  string `json:"sender" jsonschema:"required,the sender address or identity"`
}

type ingestEmailOutput struct {
	Extracted  int          `json:"extracted"`
	Added      []taskOutput `json:"added"`
	Duplicates []string     `json:"duplicates,omitempty"`
}

type getStatsInput struct{}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List stored tasks with optional status and category filters.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as done by its ID.",
	}, s.handleCompleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "ingest_email",
		Description: "Extract actionable tasks from an email (subject, body, sender) and store the non-duplicates.",
	}, s.handleIngestEmail)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_stats",
		Description: "Get task aggregates: totals, status, category, priority, and sender breakdowns.",
	}, s.handleGetStats)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	tasks, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{Tasks: []taskOutput{}}
	for _, t := range tasks {
		if input.Status != "" && string(t.Status) != input.Status {
			continue
		}
		if input.Category != "" && string(t.Category) != input.Category {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)
	return nil, out, nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input completeTaskInput) (*gomcp.CallToolResult, completeTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), completeTaskOutput{}, nil
	}

	updated, err := s.store.UpdateStatus(input.TaskID, models.StatusDone)
	if err != nil {
		return errorResult(fmt.Sprintf("completing task %s: %s", input.TaskID, err)), completeTaskOutput{}, nil
	}
	if !updated {
		return errorResult(fmt.Sprintf("task not found: %s", input.TaskID)), completeTaskOutput{}, nil
	}

	return nil, completeTaskOutput{Message: fmt.Sprintf("Task %s marked as done", input.TaskID)}, nil
}

func (s *Server) handleIngestEmail(ctx context.Context, _ *gomcp.CallToolRequest, input ingestEmailInput) (*gomcp.CallToolResult, ingestEmailOutput, error) {
	email := models.EmailMessage{
		Subject: input.Subject,
		Body:    input.Body,
		Sender:  input.Sender,
	}
	if err := email.Validate(); err != nil {
		return errorResult(err.Error()), ingestEmailOutput{}, nil
	}

	result, err := s.pipeline.Ingest(ctx, email)
	if err != nil {
		return errorResult(fmt.Sprintf("ingesting email: %s", err)), ingestEmailOutput{}, nil
	}

	out := ingestEmailOutput{
		Extracted:  result.Extracted,
		Added:      make([]taskOutput, len(result.Added)),
		Duplicates: result.Duplicates,
	}
	for i, t := range result.Added {
		out.Added[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, _ getStatsInput) (*gomcp.CallToolResult, *observability.Stats, error) {
	tasks, err := s.store.Load()
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), nil, nil
	}
	return nil, observability.CalculateStats(tasks, time.Now().UTC().Format("2006-01-02")), nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		Description: t.Description,
		Category:    string(t.Category),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Sender:      t.Sender,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		Subject:     t.SourceEmail.Subject,
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
