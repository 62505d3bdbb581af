package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateNote inserts a new note.
func (s *Store) CreateNote(ctx context.Context, opts CreateNoteOpts) (Note, error) {
	if opts.Color == "" {
		opts.Color = "yellow"
	}

	now := time.Now().UTC()
	note := Note{
		ID:        uuid.NewString(),
		UserID:    opts.UserID,
		Title:     opts.Title,
		Content:   opts.Content,
		Color:     opts.Color,
		IsPinned:  opts.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO notes
		(id, user_id, title, content, color, is_pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.UserID, nullableString(note.Title), nullableString(note.Content),
		note.Color, boolToInt(note.IsPinned),
		now.Format(timeFormat), now.Format(timeFormat))
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

// ListNotes returns a user's notes, pinned first, then newest first. A search
// term filters on title or content.
func (s *Store) ListNotes(ctx context.Context, userID string, opts ListNotesOpts) ([]Note, error) {
	query := `SELECT id, user_id, title, content, color, is_pinned, created_at, updated_at
		FROM notes WHERE user_id = ?`
	args := []any{userID}

	if opts.Search != "" {
		query += " AND (title LIKE ? OR content LIKE ?)"
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY is_pinned DESC, created_at DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// NoteByID looks up a single note.
func (s *Store) NoteByID(ctx context.Context, userID, noteID string) (Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, title, content, color, is_pinned,
		created_at, updated_at FROM notes WHERE user_id = ? AND id = ?`, userID, noteID)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return Note{}, ErrNotFound
	}
	return note, err
}

// UpdateNote applies a partial update to a note.
func (s *Store) UpdateNote(ctx context.Context, userID, noteID string, opts UpdateNoteOpts) (Note, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(timeFormat)}

	if opts.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, nullableString(*opts.Title))
	}
	if opts.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, nullableString(*opts.Content))
	}
	if opts.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *opts.Color)
	}
	args = append(args, userID, noteID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND id = ?", args...)
	if err != nil {
		return Note{}, fmt.Errorf("update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Note{}, ErrNotFound
	}
	return s.NoteByID(ctx, userID, noteID)
}

// DeleteNote removes a note. It reports whether a row was deleted.
func (s *Store) DeleteNote(ctx context.Context, userID, noteID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM notes WHERE user_id = ? AND id = ?", userID, noteID)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanNote(row scanner) (Note, error) {
	var note Note
	var title, content sql.NullString
	var pinned int
	var createdAt, updatedAt string

	err := row.Scan(&note.ID, &note.UserID, &title, &content,
		&note.Color, &pinned, &createdAt, &updatedAt)
	if err != nil {
		return Note{}, err
	}

	note.Title = title.String
	note.Content = content.String
	note.IsPinned = pinned != 0
	note.CreatedAt = parseTime(createdAt)
	note.UpdatedAt = parseTime(updatedAt)
	return note, nil
}
