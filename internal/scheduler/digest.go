package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pepper/internal/notify"
	"pepper/internal/store"
)

// SendDigest composes and sends the task digest for every user with open
// tasks. Users without open tasks are skipped entirely. A delivery failure
// is logged per user and never aborts the remaining digests.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	users, err := s.store.UsersWithOpenTasks(ctx)
	if err != nil {
		return fmt.Errorf("digest users: %w", err)
	}

	now := time.Now()
	for _, userID := range users {
		tasks, err := s.store.ListTasks(ctx, userID, store.ListTasksOpts{Status: "open"})
		if err != nil {
			return fmt.Errorf("digest tasks for %s: %w", userID, err)
		}
		if len(tasks) == 0 {
			continue
		}

		n := notify.Notification{
			Title: "Dagelijkse taken",
			Body:  digestBody(tasks, now),
		}
		if err := s.notifier.Send(ctx, n); err != nil {
			s.logger.Printf("[scheduler] digest for %s not delivered: %v", userID, err)
		}
	}
	return nil
}

// digestBody renders the Dutch digest body: tasks with the earliest due
// date first, undated tasks last.
func digestBody(tasks []store.Task, now time.Time) string {
	sorted := make([]store.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].DueDate, sorted[j].DueDate
		if (a == "") != (b == "") {
			return b == ""
		}
		return a < b
	})

	var sb strings.Builder
	if len(sorted) == 1 {
		sb.WriteString("Je hebt 1 open taak:\n")
	} else {
		fmt.Fprintf(&sb, "Je hebt %d open taken:\n", len(sorted))
	}
	for _, task := range sorted {
		fmt.Fprintf(&sb, "- #%d %s%s\n", task.Number, task.Title, dueLabel(task.DueDate, now))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// dueLabel renders a due date relative to now. Unparseable or absent dates
// yield no label.
func dueLabel(due string, now time.Time) string {
	if due == "" {
		return ""
	}
	day, err := time.ParseInLocation("2006-01-02", due, now.Location())
	if err != nil {
		return ""
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Round absorbs DST days that are not exactly 24h long.
	days := int(day.Sub(today).Round(24*time.Hour) / (24 * time.Hour))

	switch {
	case days < -1:
		return fmt.Sprintf(" (%d dagen te laat)", -days)
	case days == -1:
		return " (1 dag te laat)"
	case days == 0:
		return " (vandaag)"
	case days == 1:
		return " (morgen)"
	default:
		return fmt.Sprintf(" (%s)", day.Format("02-01"))
	}
}
