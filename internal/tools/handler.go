package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pepper/internal/store"
)

// Outcome is the result of a single internal tool execution. Failed
// executions carry an error message instead of raising; callers wrap the
// outcome into their own response envelope.
type Outcome struct {
	Success bool
	Data    map[string]any
	Error   string
}

func success(data map[string]any) Outcome {
	return Outcome{Success: true, Data: data}
}

func failure(format string, args ...any) Outcome {
	return Outcome{Error: fmt.Sprintf(format, args...)}
}

// Handler executes the built-in productivity tools against the local store.
type Handler struct {
	store *store.Store
}

// NewHandler returns a Handler backed by st.
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// Execute runs one internal tool for the given user. It never returns an
// error: every failure is reported through the outcome.
func (h *Handler) Execute(ctx context.Context, tool string, params Params, userID string) Outcome {
	if _, err := uuid.Parse(userID); err != nil {
		return failure("Invalid user_id: %s", userID)
	}

	switch tool {
	case "create_task":
		return h.createTask(ctx, params, userID)
	case "list_tasks":
		return h.listTasks(ctx, params, userID)
	case "complete_task":
		return h.completeTask(ctx, params, userID)
	case "update_task":
		return h.updateTask(ctx, params, userID)
	case "delete_task":
		return h.deleteTask(ctx, params, userID)
	case "create_note":
		return h.createNote(ctx, params, userID)
	case "list_notes":
		return h.listNotes(ctx, params, userID)
	case "update_note":
		return h.updateNote(ctx, params, userID)
	case "delete_note":
		return h.deleteNote(ctx, params, userID)
	case "create_person":
		return h.createPerson(ctx, params, userID)
	case "list_persons":
		return h.listPersons(ctx, params, userID)
	case "list_inbox":
		return h.listInbox(ctx, params, userID)
	default:
		return failure("Unknown tool: %s", tool)
	}
}

func (h *Handler) createTask(ctx context.Context, p Params, userID string) Outcome {
	title, err := p.String("title")
	if err != nil {
		return failure("%s", err)
	}

	task, err := h.store.CreateTask(ctx, store.CreateTaskOpts{
		UserID:      userID,
		Title:       title,
		Memo:        p.StringOr("memo", ""),
		DueDate:     p.StringOr("due_date", ""),
		Priority:    p.StringOr("priority", "medium"),
		DelegatedTo: p.StringOr("delegated_to", ""),
		Tags:        p.StringSlice("tags"),
	})
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message":     fmt.Sprintf("Taak '%s' aangemaakt (#%d)", task.Title, task.Number),
		"task_id":     task.ID,
		"task_number": task.Number,
	})
}

func (h *Handler) listTasks(ctx context.Context, p Params, userID string) Outcome {
	tasks, err := h.store.ListTasks(ctx, userID, store.ListTasksOpts{
		Status:   p.StringOr("status", ""),
		Priority: p.StringOr("priority", ""),
		Limit:    p.IntOr("limit", 20),
	})
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": fmt.Sprintf("%d taken gevonden", len(tasks)),
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

// resolveTaskID turns a task_id or task_number parameter into a task UUID.
// The second return value is non-nil when resolution failed.
func (h *Handler) resolveTaskID(ctx context.Context, p Params, userID string) (string, *Outcome) {
	taskID := p.StringOr("task_id", "")
	number := p.IntOr("task_number", 0)

	if number != 0 && taskID == "" {
		task, err := h.store.TaskByNumber(ctx, userID, number)
		if errors.Is(err, store.ErrNotFound) {
			out := failure("Taak #%d niet gevonden", number)
			return "", &out
		}
		if err != nil {
			out := failure("%s", err)
			return "", &out
		}
		taskID = task.ID
	}

	if taskID == "" {
		out := failure("task_id of task_number is vereist")
		return "", &out
	}
	return taskID, nil
}

func (h *Handler) completeTask(ctx context.Context, p Params, userID string) Outcome {
	taskID, fail := h.resolveTaskID(ctx, p, userID)
	if fail != nil {
		return *fail
	}

	task, err := h.store.UpdateTaskStatus(ctx, userID, taskID, store.TaskStatusDone, p.StringOr("annotation", ""))
	if errors.Is(err, store.ErrNotFound) {
		return failure("Taak niet gevonden")
	}
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": fmt.Sprintf("Taak '%s' voltooid", task.Title),
		"task_id": task.ID,
	})
}

func (h *Handler) updateTask(ctx context.Context, p Params, userID string) Outcome {
	taskID, fail := h.resolveTaskID(ctx, p, userID)
	if fail != nil {
		return *fail
	}

	if status := p.StringOr("status", ""); status != "" {
		_, err := h.store.UpdateTaskStatus(ctx, userID, taskID, status, p.StringOr("annotation", ""))
		if errors.Is(err, store.ErrNotFound) {
			return failure("Taak niet gevonden")
		}
		if err != nil {
			return failure("%s", err)
		}
	}

	var opts store.UpdateTaskFieldsOpts
	changed := false
	if p.Has("memo") {
		v := p.StringOr("memo", "")
		opts.Memo = &v
		changed = true
	}
	if p.Has("due_date") {
		v := p.StringOr("due_date", "")
		opts.DueDate = &v
		changed = true
	}
	if p.Has("priority") {
		v := p.StringOr("priority", "")
		if v != "" {
			opts.Priority = &v
			changed = true
		}
	}
	if p.Has("tags") {
		opts.Tags = p.StringSlice("tags")
		if opts.Tags == nil {
			opts.Tags = []string{}
		}
		changed = true
	}

	if changed {
		_, err := h.store.UpdateTaskFields(ctx, userID, taskID, opts)
		if errors.Is(err, store.ErrNotFound) {
			return failure("Taak niet gevonden")
		}
		if err != nil {
			return failure("%s", err)
		}
	}

	task, err := h.store.TaskByID(ctx, userID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return failure("Taak niet gevonden")
	}
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": fmt.Sprintf("Taak '%s' bijgewerkt", task.Title),
		"task_id": task.ID,
		"status":  task.Status,
	})
}

func (h *Handler) deleteTask(ctx context.Context, p Params, userID string) Outcome {
	taskID, fail := h.resolveTaskID(ctx, p, userID)
	if fail != nil {
		return *fail
	}

	deleted, err := h.store.DeleteTask(ctx, userID, taskID)
	if err != nil {
		return failure("%s", err)
	}
	if !deleted {
		return failure("Taak niet gevonden")
	}

	return success(map[string]any{"message": "Taak verwijderd"})
}

func (h *Handler) createNote(ctx context.Context, p Params, userID string) Outcome {
	note, err := h.store.CreateNote(ctx, store.CreateNoteOpts{
		UserID:   userID,
		Title:    p.StringOr("title", ""),
		Content:  p.StringOr("content", ""),
		Color:    p.StringOr("color", "yellow"),
		IsPinned: p.Bool("is_pinned"),
	})
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": "Notitie aangemaakt",
		"note_id": note.ID,
	})
}

func (h *Handler) listNotes(ctx context.Context, p Params, userID string) Outcome {
	notes, err := h.store.ListNotes(ctx, userID, store.ListNotesOpts{
		Search: p.StringOr("search", ""),
		Limit:  p.IntOr("limit", 20),
	})
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": fmt.Sprintf("%d notities gevonden", len(notes)),
		"notes":   notes,
		"count":   len(notes),
	})
}

func (h *Handler) updateNote(ctx context.Context, p Params, userID string) Outcome {
	noteID := p.StringOr("note_id", "")
	if noteID == "" {
		return failure("note_id is vereist")
	}

	var opts store.UpdateNoteOpts
	if p.Has("title") {
		v := p.StringOr("title", "")
		opts.Title = &v
	}
	if p.Has("content") {
		v := p.StringOr("content", "")
		opts.Content = &v
	}
	if p.Has("color") {
		v := p.StringOr("color", "")
		if v != "" {
			opts.Color = &v
		}
	}

	_, err := h.store.UpdateNote(ctx, userID, noteID, opts)
	if errors.Is(err, store.ErrNotFound) {
		return failure("Notitie niet gevonden")
	}
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{"message": "Notitie bijgewerkt"})
}

func (h *Handler) deleteNote(ctx context.Context, p Params, userID string) Outcome {
	noteID := p.StringOr("note_id", "")
	if noteID == "" {
		return failure("note_id is vereist")
	}

	deleted, err := h.store.DeleteNote(ctx, userID, noteID)
	if err != nil {
		return failure("%s", err)
	}
	if !deleted {
		return failure("Notitie niet gevonden")
	}

	return success(map[string]any{"message": "Notitie verwijderd"})
}

func (h *Handler) createPerson(ctx context.Context, p Params, userID string) Outcome {
	name, err := p.String("name")
	if err != nil {
		return failure("%s", err)
	}

	person, err := h.store.CreatePerson(ctx, store.CreatePersonOpts{
		UserID:      userID,
		Name:        name,
		Email:       p.StringOr("email", ""),
		PhoneNumber: p.StringOr("phone_number", ""),
	})
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message":   fmt.Sprintf("Contact '%s' aangemaakt", person.Name),
		"person_id": person.ID,
	})
}

func (h *Handler) listPersons(ctx context.Context, p Params, userID string) Outcome {
	persons, err := h.store.ListPersons(ctx, userID, p.IntOr("limit", 50))
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": fmt.Sprintf("%d contacten gevonden", len(persons)),
		"persons": persons,
		"count":   len(persons),
	})
}

func (h *Handler) listInbox(ctx context.Context, p Params, userID string) Outcome {
	items, err := h.store.ListInbox(ctx, userID, store.ListInboxOpts{
		Status: p.StringOr("status", ""),
		Limit:  p.IntOr("limit", 20),
	})
	if err != nil {
		return failure("%s", err)
	}

	return success(map[string]any{
		"message": fmt.Sprintf("%d inbox items", len(items)),
		"items":   items,
		"count":   len(items),
	})
}
