package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateTask inserts a new task and assigns it the next per-user number.
func (s *Store) CreateTask(ctx context.Context, opts CreateTaskOpts) (Task, error) {
	if opts.Priority == "" {
		opts.Priority = "medium"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var number int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(number), 0) + 1 FROM tasks WHERE user_id = ?",
		opts.UserID).Scan(&number)
	if err != nil {
		return Task{}, fmt.Errorf("next task number: %w", err)
	}

	now := time.Now().UTC()
	task := Task{
		ID:          uuid.NewString(),
		UserID:      opts.UserID,
		Number:      number,
		Title:       opts.Title,
		Memo:        opts.Memo,
		DueDate:     opts.DueDate,
		Priority:    opts.Priority,
		Status:      TaskStatusNew,
		DelegatedTo: opts.DelegatedTo,
		Tags:        opts.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO tasks
		(id, user_id, number, title, memo, due_date, priority, status, delegated_to, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Number, task.Title,
		nullableString(task.Memo), nullableString(task.DueDate),
		task.Priority, task.Status, nullableString(task.DelegatedTo),
		marshalTags(task.Tags),
		now.Format(timeFormat), now.Format(timeFormat))
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Task{}, fmt.Errorf("commit: %w", err)
	}
	return task, nil
}

// ListTasks returns a user's tasks, newest first. Two virtual status filters
// exist next to the literal ones: "open" selects everything not yet done or
// cancelled, "overdue" selects open tasks whose due date has passed.
func (s *Store) ListTasks(ctx context.Context, userID string, opts ListTasksOpts) ([]Task, error) {
	query := `SELECT id, user_id, number, title, memo, due_date, priority, status,
		delegated_to, tags, annotation, created_at, updated_at, completed_at
		FROM tasks WHERE user_id = ?`
	args := []any{userID}

	switch opts.Status {
	case "":
		// No status filter.
	case "open":
		query += " AND status NOT IN (?, ?)"
		args = append(args, TaskStatusDone, TaskStatusCancelled)
	case "overdue":
		today := time.Now().UTC().Format("2006-01-02")
		query += " AND due_date IS NOT NULL AND due_date < ? AND status NOT IN (?, ?)"
		args = append(args, today, TaskStatusDone, TaskStatusCancelled)
	default:
		query += " AND status = ?"
		args = append(args, opts.Status)
	}
	if opts.Priority != "" {
		query += " AND priority = ?"
		args = append(args, opts.Priority)
	}

	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// TaskByNumber looks up a task by its per-user number.
func (s *Store) TaskByNumber(ctx context.Context, userID string, number int) (Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, number, title, memo, due_date,
		priority, status, delegated_to, tags, annotation, created_at, updated_at, completed_at
		FROM tasks WHERE user_id = ? AND number = ?`, userID, number)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return Task{}, ErrNotFound
	}
	return task, err
}

// TaskByID looks up a task by its UUID.
func (s *Store) TaskByID(ctx context.Context, userID, taskID string) (Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, number, title, memo, due_date,
		priority, status, delegated_to, tags, annotation, created_at, updated_at, completed_at
		FROM tasks WHERE user_id = ? AND id = ?`, userID, taskID)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return Task{}, ErrNotFound
	}
	return task, err
}

// UpdateTaskStatus moves a task to a new status, optionally recording an
// annotation. Completing a task stamps completed_at; reopening clears it.
func (s *Store) UpdateTaskStatus(ctx context.Context, userID, taskID, status, annotation string) (Task, error) {
	now := time.Now().UTC()
	var completedAt any
	if status == TaskStatusDone {
		completedAt = now.Format(timeFormat)
	}

	sets := []string{"status = ?", "updated_at = ?", "completed_at = ?"}
	args := []any{status, now.Format(timeFormat), completedAt}
	if annotation != "" {
		sets = append(sets, "annotation = ?")
		args = append(args, annotation)
	}
	args = append(args, userID, taskID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND id = ?", args...)
	if err != nil {
		return Task{}, fmt.Errorf("update task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Task{}, ErrNotFound
	}
	return s.TaskByID(ctx, userID, taskID)
}

// UpdateTaskFields applies a partial update to a task.
func (s *Store) UpdateTaskFields(ctx context.Context, userID, taskID string, opts UpdateTaskFieldsOpts) (Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(timeFormat)}

	if opts.Memo != nil {
		sets = append(sets, "memo = ?")
		args = append(args, nullableString(*opts.Memo))
	}
	if opts.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, nullableString(*opts.DueDate))
	}
	if opts.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *opts.Priority)
	}
	if opts.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, marshalTags(opts.Tags))
	}
	args = append(args, userID, taskID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND id = ?", args...)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Task{}, ErrNotFound
	}
	return s.TaskByID(ctx, userID, taskID)
}

// DeleteTask removes a task. It reports whether a row was deleted.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE user_id = ? AND id = ?", userID, taskID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UsersWithOpenTasks returns the IDs of users that have at least one task
// that is neither done nor cancelled.
func (s *Store) UsersWithOpenTasks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT user_id FROM tasks WHERE status NOT IN (?, ?) ORDER BY user_id",
		TaskStatusDone, TaskStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (Task, error) {
	var task Task
	var memo, dueDate, delegatedTo, tags, annotation, completedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&task.ID, &task.UserID, &task.Number, &task.Title,
		&memo, &dueDate, &task.Priority, &task.Status,
		&delegatedTo, &tags, &annotation, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return Task{}, err
	}

	task.Memo = memo.String
	task.DueDate = dueDate.String
	task.DelegatedTo = delegatedTo.String
	task.Annotation = annotation.String
	task.Tags = unmarshalTags(tags.String)
	task.CreatedAt = parseTime(createdAt)
	task.UpdatedAt = parseTime(updatedAt)
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		task.CompletedAt = &t
	}
	return task, nil
}

func marshalTags(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return string(b)
}

func unmarshalTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}
