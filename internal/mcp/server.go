// Package mcp provides an MCP (Model Context Protocol) server that exposes
// boardly functionality as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"

	"github.com/cosmic-jellyfish/boardly/internal/core"
	"github.com/cosmic-jellyfish/boardly/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps boardly stores and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	tasks      core.TaskStore
	activities core.ActivityStore
}

// NewServer creates a new MCP server with the given store dependencies.
func NewServer(tasks core.TaskStore, activities core.ActivityStore, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		tasks:      tasks,
		activities: activities,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "boardly", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on the given transport, blocking until the client
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
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type taskOutput struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Tags         []string `json:"tags,omitempty"`
	Assignees    []string `json:"assignees,omitempty"`
	ParentID     string   `json:"parent_id,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Order        int      `json:"order"`
	Archived     bool     `json:"archived"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type listTasksInput struct {
	Status          string `json:"status,omitempty" jsonschema:"filter tasks by status (todo, in-progress, review, completed)"`
	IncludeArchived bool   `json:"include_archived,omitempty" jsonschema:"include archived tasks in the listing"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Name        string   `json:"name" jsonschema:"required,the task name"`
	Description string   `json:"description,omitempty" jsonschema:"optional task description"`
	Status      string   `json:"status,omitempty" jsonschema:"initial status (todo, in-progress, review, completed), defaults to todo"`
	Priority    string   `json:"priority,omitempty" jsonschema:"priority (Low, Medium, High, Critical), defaults to Medium"`
	Tags        []string `json:"tags,omitempty" jsonschema:"optional tags"`
	Assignees   []string `json:"assignees,omitempty" jsonschema:"optional assignee names"`
	ParentID    string   `json:"parent_id,omitempty" jsonschema:"optional parent task id for subtasks"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Status string `json:"status" jsonschema:"required,the new status (todo, in-progress, review, completed)"`
}

type updateTaskStatusOutput struct {
	Message string `json:"message"`
}

type deleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type deleteTaskOutput struct {
	Message string `json:"message"`
}

type recentActivityInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of events to return, defaults to 10"`
}

type activityOutput struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	TaskName  string `json:"task_name"`
	EventType string `json:"event_type"`
	Changes   string `json:"changes,omitempty"`
	CreatedAt string `json:"created_at"`
}

type recentActivityOutput struct {
	Events []activityOutput `json:"events"`
	Count  int              `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID. Returns the full task object including status, priority, dates, and dependencies.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with an optional status filter. Archived tasks are excluded unless requested.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task. Only the name is required; status defaults to todo and priority to Medium.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task_status",
		Description: "Move a task to a new column. Valid statuses: todo, in-progress, review, completed.",
	}, s.handleUpdateTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Permanently delete a task by ID.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "recent_activity",
		Description: "Get the most recent activity events across all tasks, newest first.",
	}, s.handleRecentActivity)
}

// --- Tool handlers ---

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.tasks.GetByID(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	return nil, taskToOutput(*task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	var tasks []models.Task

	if input.Status != "" {
		status := models.Status(input.Status)
		if !status.Known() {
			return errorResult(fmt.Sprintf("invalid status %q: must be one of todo, in-progress, review, completed", input.Status)), listTasksOutput{}, nil
		}
		tasks = s.tasks.GetByStatus(status)
	} else {
		tasks = s.tasks.GetAll()
	}

	out := listTasksOutput{Tasks: make([]taskOutput, 0, len(tasks))}
	for _, t := range tasks {
		if t.Archived && !input.IncludeArchived {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)

	return nil, out, nil
}

func (s *Server) handleCreateTask(_ context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.Name == "" {
		return errorResult("name is required"), taskOutput{}, nil
	}

	status := models.StatusTodo
	if input.Status != "" {
		status = models.Status(input.Status)
		if !status.Known() {
			return errorResult(fmt.Sprintf("invalid status %q: must be one of todo, in-progress, review, completed", input.Status)), taskOutput{}, nil
		}
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.Priority(input.Priority)
		if !priority.Known() {
			return errorResult(fmt.Sprintf("invalid priority %q: must be one of Low, Medium, High, Critical", input.Priority)), taskOutput{}, nil
		}
	}

	task, err := s.tasks.Create(models.Task{
		Name:        input.Name,
		Title:       input.Name,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Tags:        input.Tags,
		Assignees:   input.Assignees,
		ParentID:    input.ParentID,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}

	return nil, taskToOutput(*task), nil
}

func (s *Server) handleUpdateTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskStatusInput) (*gomcp.CallToolResult, updateTaskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), updateTaskStatusOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), updateTaskStatusOutput{}, nil
	}

	status := models.Status(input.Status)
	if !status.Known() {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of todo, in-progress, review, completed", input.Status)), updateTaskStatusOutput{}, nil
	}

	if _, err := s.tasks.Update(input.TaskID, models.TaskUpdate{Status: &status}); err != nil {
		return errorResult(fmt.Sprintf("updating task %s status: %s", input.TaskID, err)), updateTaskStatusOutput{}, nil
	}

	out := updateTaskStatusOutput{
		Message: fmt.Sprintf("task %s status updated to %s", input.TaskID, input.Status),
	}
	return nil, out, nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input deleteTaskInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), deleteTaskOutput{}, nil
	}

	if err := s.tasks.Delete(input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("deleting task %s: %s", input.TaskID, err)), deleteTaskOutput{}, nil
	}

	out := deleteTaskOutput{
		Message: fmt.Sprintf("task %s deleted", input.TaskID),
	}
	return nil, out, nil
}

func (s *Server) handleRecentActivity(_ context.Context, _ *gomcp.CallToolRequest, input recentActivityInput) (*gomcp.CallToolResult, recentActivityOutput, error) {
	events := s.activities.GetRecent(input.Limit)

	out := recentActivityOutput{
		Events: make([]activityOutput, len(events)),
		Count:  len(events),
	}
	for i, e := range events {
		out.Events[i] = activityOutput{
			ID:        e.ID,
			TaskID:    e.TaskID,
			TaskName:  e.TaskName,
			EventType: string(e.EventType),
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:           t.ID,
		Name:         t.DisplayName(),
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Tags:         t.Tags,
		Assignees:    t.Assignees,
		ParentID:     t.ParentID,
		Dependencies: t.Dependencies,
		StartDate:    stringValue(t.StartDate),
		EndDate:      stringValue(t.EndDate),
		Order:        t.Order,
		Archived:     t.Archived,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
