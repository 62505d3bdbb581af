package mcpserver

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pepper/internal/dispatch"
	"pepper/internal/intent"
	"pepper/internal/tools"
)

// routeOutput is the uniform envelope every dispatch-backed tool returns.
// Routing failures come back inside it, never as MCP protocol errors.
type routeOutput struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// route sends one call through the distributor on behalf of the MCP user.
func route(ctx context.Context, opts Options, tool string, params tools.Params) (*mcpsdk.CallToolResult, routeOutput, error) {
	result := opts.Distributor.RouteAndExecute(ctx, dispatch.Call{
		Tool:        tool,
		Params:      params,
		UserID:      opts.UserID,
		InputSource: "api",
	})
	return nil, routeOutput{Success: result.Success, Data: result.Data, Error: result.Error}, nil
}

// -- create_task --

type createTaskInput struct {
	Title    string   `json:"title" jsonschema:"description=Task title"`
	Memo     string   `json:"memo,omitempty" jsonschema:"description=Extra notes"`
	DueDate  string   `json:"due_date,omitempty" jsonschema:"description=Due date as YYYY-MM-DD"`
	Priority string   `json:"priority,omitempty" jsonschema:"description=low, medium or high"`
	Tags     []string `json:"tags,omitempty" jsonschema:"description=Free-form labels"`
}

// -- list_tasks --

type listTasksInput struct {
	Status   string `json:"status,omitempty" jsonschema:"description=Filter: new, in_progress, done, cancelled, open or overdue"`
	Priority string `json:"priority,omitempty" jsonschema:"description=Filter: low, medium or high"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Maximum number of tasks to return"`
}

// -- complete_task --

type completeTaskInput struct {
	TaskNumber int    `json:"task_number" jsonschema:"description=The task number shown in lists"`
	Annotation string `json:"annotation,omitempty" jsonschema:"description=Closing note"`
}

// -- create_note --

type createNoteInput struct {
	Title   string `json:"title" jsonschema:"description=Note title"`
	Content string `json:"content,omitempty" jsonschema:"description=Note body"`
	Color   string `json:"color,omitempty" jsonschema:"description=Card color, defaults to yellow"`
}

// -- detect_intent --

type detectIntentInput struct {
	Input string `json:"input" jsonschema:"description=The raw user text to classify"`
}

type detectIntentOutput struct {
	Intent      intent.Detected    `json:"intent"`
	DateContext intent.DateContext `json:"date_context"`
}

func registerTools(server *mcpsdk.Server, opts Options) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "create_task",
		Description: "Create a task on the user's local task list",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, input createTaskInput) (*mcpsdk.CallToolResult, routeOutput, error) {
		if input.Title == "" {
			return nil, routeOutput{}, fmt.Errorf("title is required")
		}
		params := tools.Params{"title": input.Title}
		if input.Memo != "" {
			params["memo"] = input.Memo
		}
		if input.DueDate != "" {
			params["due_date"] = input.DueDate
		}
		if input.Priority != "" {
			params["priority"] = input.Priority
		}
		if len(input.Tags) > 0 {
			params["tags"] = input.Tags
		}
		return route(ctx, opts, "create_task", params)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_tasks",
		Description: "List the user's tasks, newest first",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, input listTasksInput) (*mcpsdk.CallToolResult, routeOutput, error) {
		params := tools.Params{}
		if input.Status != "" {
			params["status"] = input.Status
		}
		if input.Priority != "" {
			params["priority"] = input.Priority
		}
		if input.Limit > 0 {
			params["limit"] = input.Limit
		}
		return route(ctx, opts, "list_tasks", params)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "complete_task",
		Description: "Mark one of the user's tasks as done",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, input completeTaskInput) (*mcpsdk.CallToolResult, routeOutput, error) {
		if input.TaskNumber == 0 {
			return nil, routeOutput{}, fmt.Errorf("task_number is required")
		}
		params := tools.Params{"task_number": input.TaskNumber}
		if input.Annotation != "" {
			params["annotation"] = input.Annotation
		}
		return route(ctx, opts, "complete_task", params)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "create_note",
		Description: "Create a note on the user's board",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, input createNoteInput) (*mcpsdk.CallToolResult, routeOutput, error) {
		if input.Title == "" {
			return nil, routeOutput{}, fmt.Errorf("title is required")
		}
		params := tools.Params{"title": input.Title}
		if input.Content != "" {
			params["content"] = input.Content
		}
		if input.Color != "" {
			params["color"] = input.Color
		}
		return route(ctx, opts, "create_note", params)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "detect_intent",
		Description: "Classify raw user text into an intent category with date context",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, input detectIntentInput) (*mcpsdk.CallToolResult, detectIntentOutput, error) {
		if input.Input == "" {
			return nil, detectIntentOutput{}, fmt.Errorf("input is required")
		}
		return nil, detectIntentOutput{
			Intent:      opts.Detector.Detect(input.Input),
			DateContext: opts.Detector.DateContext(),
		}, nil
	})
}
