package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultProvider is the calendar provider used when a user has not chosen one.
const DefaultProvider = "microsoft"

// PrimaryProvider returns the user's preferred calendar provider, falling
// back to DefaultProvider when none is set.
func (s *Store) PrimaryProvider(ctx context.Context, userID string) (string, error) {
	var provider string
	err := s.db.QueryRowContext(ctx,
		"SELECT primary_calendar_provider FROM user_settings WHERE user_id = ?",
		userID).Scan(&provider)
	if err == sql.ErrNoRows {
		return DefaultProvider, nil
	}
	if err != nil {
		return "", fmt.Errorf("query settings: %w", err)
	}
	if provider == "" {
		return DefaultProvider, nil
	}
	return provider, nil
}

// SetPrimaryProvider stores the user's preferred calendar provider.
func (s *Store) SetPrimaryProvider(ctx context.Context, userID, provider string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_settings (user_id, primary_calendar_provider)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET primary_calendar_provider = excluded.primary_calendar_provider`,
		userID, provider)
	if err != nil {
		return fmt.Errorf("set provider: %w", err)
	}
	return nil
}
