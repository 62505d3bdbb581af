package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreatePerson inserts a new contact.
func (s *Store) CreatePerson(ctx context.Context, opts CreatePersonOpts) (Person, error) {
	now := time.Now().UTC()
	person := Person{
		ID:          uuid.NewString(),
		UserID:      opts.UserID,
		Name:        opts.Name,
		Email:       opts.Email,
		PhoneNumber: opts.PhoneNumber,
		CreatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO persons
		(id, user_id, name, email, phone_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		person.ID, person.UserID, person.Name,
		nullableString(person.Email), nullableString(person.PhoneNumber),
		now.Format(timeFormat))
	if err != nil {
		return Person{}, fmt.Errorf("insert person: %w", err)
	}
	return person, nil
}

// ListPersons returns a user's contacts, alphabetically by name.
func (s *Store) ListPersons(ctx context.Context, userID string, limit int) ([]Person, error) {
	query := `SELECT id, user_id, name, email, phone_number, created_at
		FROM persons WHERE user_id = ? ORDER BY name COLLATE NOCASE`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var persons []Person
	for rows.Next() {
		var p Person
		var email, phone sql.NullString
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &email, &phone, &createdAt); err != nil {
			return nil, err
		}
		p.Email = email.String
		p.PhoneNumber = phone.String
		p.CreatedAt = parseTime(createdAt)
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// CreateInboxItem captures a raw thought into the inbox.
func (s *Store) CreateInboxItem(ctx context.Context, opts CreateInboxOpts) (InboxItem, error) {
	now := time.Now().UTC()
	item := InboxItem{
		ID:        uuid.NewString(),
		UserID:    opts.UserID,
		Content:   opts.Content,
		Source:    opts.Source,
		Status:    "unprocessed",
		CreatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO inbox_items
		(id, user_id, content, source, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Content, nullableString(item.Source),
		item.Status, now.Format(timeFormat))
	if err != nil {
		return InboxItem{}, fmt.Errorf("insert inbox item: %w", err)
	}
	return item, nil
}

// ListInbox returns a user's inbox items, newest first.
func (s *Store) ListInbox(ctx context.Context, userID string, opts ListInboxOpts) ([]InboxItem, error) {
	query := `SELECT id, user_id, content, source, status, created_at
		FROM inbox_items WHERE user_id = ?`
	args := []any{userID}

	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, opts.Status)
	}

	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inbox: %w", err)
	}
	defer rows.Close()

	var items []InboxItem
	for rows.Next() {
		var item InboxItem
		var source sql.NullString
		var createdAt string
		if err := rows.Scan(&item.ID, &item.UserID, &item.Content, &source,
			&item.Status, &createdAt); err != nil {
			return nil, err
		}
		item.Source = source.String
		item.CreatedAt = parseTime(createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}
