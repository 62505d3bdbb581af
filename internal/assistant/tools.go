package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/toolrunner"

	"pepper/internal/dispatch"
	"pepper/internal/store"
	"pepper/internal/tools"
)

// toolText is a convenience helper to return a plain text tool result.
func toolText(s string) anthropic.BetaToolResultBlockParamContentUnion {
	return anthropic.BetaToolResultBlockParamContentUnion{
		OfText: &anthropic.BetaTextBlockParam{Text: s},
	}
}

// routeTool sends one tool call through the distributor and renders the
// envelope for the model. Routing failures come back as text, never as a Go
// error, so the tool loop keeps running.
func (a *Assistant) routeTool(ctx context.Context, userID, tool string, params tools.Params, provider string) anthropic.BetaToolResultBlockParamContentUnion {
	result := a.distributor.RouteAndExecute(ctx, dispatch.Call{
		Tool:        tool,
		Params:      params,
		Provider:    provider,
		UserID:      userID,
		InputSource: "chat",
	})
	if !result.Success {
		return toolText("error: " + result.Error)
	}
	data, err := json.Marshal(result.Data)
	if err != nil {
		return toolText("error: " + err.Error())
	}
	return toolText(string(data))
}

// buildTools constructs the tool set for one user's conversation.
func (a *Assistant) buildTools(userID string) ([]anthropic.BetaTool, error) {
	// -- create_calendar_event --
	type createEventInput struct {
		Title     string   `json:"title" jsonschema:"required,description=Event title"`
		Date      string   `json:"date" jsonschema:"required,description=Event date as YYYY-MM-DD"`
		StartTime string   `json:"start_time,omitempty" jsonschema:"description=Start time as HH:MM (24h)"`
		EndTime   string   `json:"end_time,omitempty" jsonschema:"description=End time as HH:MM (24h)"`
		Location  string   `json:"location,omitempty" jsonschema:"description=Location"`
		Attendees []string `json:"attendees,omitempty" jsonschema:"description=Attendee email addresses"`
		Provider  string   `json:"provider,omitempty" jsonschema:"description=Calendar backend (google or microsoft); omit for the user's default"`
	}
	createEventTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"create_calendar_event",
		"Create a calendar event in the user's agenda.",
		func(ctx context.Context, input createEventInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{"title": input.Title, "date": input.Date}
			if input.StartTime != "" {
				params["start_time"] = input.StartTime
			}
			if input.EndTime != "" {
				params["end_time"] = input.EndTime
			}
			if input.Location != "" {
				params["location"] = input.Location
			}
			if len(input.Attendees) > 0 {
				params["attendees"] = input.Attendees
			}
			return a.routeTool(ctx, userID, "create_calendar_event", params, input.Provider), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create_calendar_event tool: %w", err)
	}

	// -- list_calendar_events --
	type listEventsInput struct {
		Date     string `json:"date,omitempty" jsonschema:"description=Day to list as YYYY-MM-DD; omit for today"`
		Days     int    `json:"days,omitempty" jsonschema:"description=Number of days ahead to include"`
		Provider string `json:"provider,omitempty" jsonschema:"description=Calendar backend (google or microsoft); omit for the user's default"`
	}
	listEventsTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"list_calendar_events",
		"List events from the user's agenda.",
		func(ctx context.Context, input listEventsInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{}
			if input.Date != "" {
				params["date"] = input.Date
			}
			if input.Days > 0 {
				params["days"] = input.Days
			}
			return a.routeTool(ctx, userID, "list_calendar_events", params, input.Provider), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list_calendar_events tool: %w", err)
	}

	// -- create_reminder --
	type createReminderInput struct {
		Title    string `json:"title" jsonschema:"required,description=What to remind about"`
		Date     string `json:"date" jsonschema:"required,description=Reminder date as YYYY-MM-DD"`
		Time     string `json:"time,omitempty" jsonschema:"description=Reminder time as HH:MM (24h)"`
		Provider string `json:"provider,omitempty" jsonschema:"description=Backend (google or microsoft); omit for the user's default"`
	}
	createReminderTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"create_reminder",
		"Create a reminder for the user.",
		func(ctx context.Context, input createReminderInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{"title": input.Title, "date": input.Date}
			if input.Time != "" {
				params["time"] = input.Time
			}
			return a.routeTool(ctx, userID, "create_reminder", params, input.Provider), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create_reminder tool: %w", err)
	}

	// -- create_task --
	type createTaskInput struct {
		Title       string   `json:"title" jsonschema:"required,description=Task title"`
		Memo        string   `json:"memo,omitempty" jsonschema:"description=Extra notes"`
		DueDate     string   `json:"due_date,omitempty" jsonschema:"description=Due date as YYYY-MM-DD"`
		Priority    string   `json:"priority,omitempty" jsonschema:"description=low, medium or high"`
		Tags        []string `json:"tags,omitempty" jsonschema:"description=Free-form labels"`
		DelegatedTo string   `json:"delegated_to,omitempty" jsonschema:"description=Name of the person this task is waiting on"`
	}
	createTaskTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"create_task",
		"Create a task on the user's local task list.",
		func(ctx context.Context, input createTaskInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
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
			if input.DelegatedTo != "" {
				params["delegated_to"] = input.DelegatedTo
			}
			return a.routeTool(ctx, userID, "create_task", params, ""), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create_task tool: %w", err)
	}

	// -- list_tasks --
	type listTasksInput struct {
		Status   string `json:"status,omitempty" jsonschema:"description=Filter: new, in_progress, done, cancelled, open or overdue"`
		Priority string `json:"priority,omitempty" jsonschema:"description=Filter: low, medium or high"`
	}
	listTasksTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"list_tasks",
		"List the user's tasks, newest first.",
		func(ctx context.Context, input listTasksInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{}
			if input.Status != "" {
				params["status"] = input.Status
			}
			if input.Priority != "" {
				params["priority"] = input.Priority
			}
			return a.routeTool(ctx, userID, "list_tasks", params, ""), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list_tasks tool: %w", err)
	}

	// -- complete_task --
	type completeTaskInput struct {
		TaskNumber int    `json:"task_number" jsonschema:"required,description=The task number shown in lists (3 for task #3)"`
		Annotation string `json:"annotation,omitempty" jsonschema:"description=Closing note"`
	}
	completeTaskTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"complete_task",
		"Mark one of the user's tasks as done.",
		func(ctx context.Context, input completeTaskInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{"task_number": input.TaskNumber}
			if input.Annotation != "" {
				params["annotation"] = input.Annotation
			}
			return a.routeTool(ctx, userID, "complete_task", params, ""), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("complete_task tool: %w", err)
	}

	// -- create_note --
	type createNoteInput struct {
		Title   string `json:"title" jsonschema:"required,description=Note title"`
		Content string `json:"content,omitempty" jsonschema:"description=Note body"`
		Color   string `json:"color,omitempty" jsonschema:"description=Card color, defaults to yellow"`
		Pinned  bool   `json:"is_pinned,omitempty" jsonschema:"description=Pin the note to the top"`
	}
	createNoteTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"create_note",
		"Create a note on the user's board.",
		func(ctx context.Context, input createNoteInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{"title": input.Title}
			if input.Content != "" {
				params["content"] = input.Content
			}
			if input.Color != "" {
				params["color"] = input.Color
			}
			if input.Pinned {
				params["is_pinned"] = true
			}
			return a.routeTool(ctx, userID, "create_note", params, ""), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create_note tool: %w", err)
	}

	// -- list_notes --
	type listNotesInput struct {
		Search string `json:"search,omitempty" jsonschema:"description=Match against title and content"`
	}
	listNotesTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"list_notes",
		"List the user's notes, pinned first.",
		func(ctx context.Context, input listNotesInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{}
			if input.Search != "" {
				params["search"] = input.Search
			}
			return a.routeTool(ctx, userID, "list_notes", params, ""), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list_notes tool: %w", err)
	}

	// -- save_to_inbox --
	// Writes the store directly: inbox capture is how half-formed thoughts
	// survive a conversation, so it must work even when routing would not.
	type saveToInboxInput struct {
		Content string `json:"content" jsonschema:"required,description=The thought or request to park"`
	}
	saveToInboxTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"save_to_inbox",
		"Park a thought or unclear request in the user's inbox for later.",
		func(ctx context.Context, input saveToInboxInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			if input.Content == "" {
				return toolText("error: content is required"), nil
			}
			if _, err := a.store.CreateInboxItem(ctx, store.CreateInboxOpts{
				UserID:  userID,
				Content: input.Content,
				Source:  "chat",
			}); err != nil {
				return toolText("error: " + err.Error()), nil
			}
			return toolText("In de inbox gezet."), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("save_to_inbox tool: %w", err)
	}

	// -- list_inbox --
	type listInboxInput struct {
		Status string `json:"status,omitempty" jsonschema:"description=Filter: unprocessed or processed"`
	}
	listInboxTool, err := toolrunner.NewBetaToolFromJSONSchema(
		"list_inbox",
		"List captured inbox items, newest first.",
		func(ctx context.Context, input listInboxInput) (anthropic.BetaToolResultBlockParamContentUnion, error) {
			params := tools.Params{}
			if input.Status != "" {
				params["status"] = input.Status
			}
			return a.routeTool(ctx, userID, "list_inbox", params, ""), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list_inbox tool: %w", err)
	}

	return []anthropic.BetaTool{
		createEventTool,
		listEventsTool,
		createReminderTool,
		createTaskTool,
		listTasksTool,
		completeTaskTool,
		createNoteTool,
		listNotesTool,
		saveToInboxTool,
		listInboxTool,
	}, nil
}
