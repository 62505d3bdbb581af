package store

import "time"

// Task is a personal todo item. Tasks carry both a stable UUID and a small
// per-user number so chat commands can reference them as "#3".
type Task struct {
	ID          string     `json:"task_id"`
	UserID      string     `json:"-"`
	Number      int        `json:"task_number"`
	Title       string     `json:"title"`
	Memo        string     `json:"memo,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DelegatedTo string     `json:"delegated_to,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Annotation  string     `json:"annotation,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Note is a free-form sticky note.
type Note struct {
	ID        string    `json:"note_id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	Color     string    `json:"color"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Person is a lightweight contact record.
type Person struct {
	ID          string    `json:"person_id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InboxItem is an unsorted capture waiting to be processed into a task,
// note or calendar entry.
type InboxItem struct {
	ID        string    `json:"inbox_id"`
	UserID    string    `json:"-"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Task status values.
const (
	TaskStatusNew        = "new"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"
)

// CreateTaskOpts holds the fields for a new task.
type CreateTaskOpts struct {
	UserID      string
	Title       string
	Memo        string
	DueDate     string // YYYY-MM-DD, empty for none
	Priority    string // low, medium or high; defaults to medium
	DelegatedTo string
	Tags        []string
}

// ListTasksOpts filters a task listing. Zero values mean "no filter".
type ListTasksOpts struct {
	Status   string // a task status, or the virtual filters "open" and "overdue"
	Priority string
	Limit    int
}

// UpdateTaskFieldsOpts carries a partial task update. Nil pointers leave the
// corresponding column untouched.
type UpdateTaskFieldsOpts struct {
	Memo     *string
	DueDate  *string
	Priority *string
	Tags     []string // nil leaves tags unchanged
}

// CreateNoteOpts holds the fields for a new note.
type CreateNoteOpts struct {
	UserID   string
	Title    string
	Content  string
	Color    string // defaults to yellow
	IsPinned bool
}

// ListNotesOpts filters a note listing.
type ListNotesOpts struct {
	Search string // substring match on title or content
	Limit  int
}

// UpdateNoteOpts carries a partial note update.
type UpdateNoteOpts struct {
	Title   *string
	Content *string
	Color   *string
}

// CreatePersonOpts holds the fields for a new person.
type CreatePersonOpts struct {
	UserID      string
	Name        string
	Email       string
	PhoneNumber string
}

// CreateInboxOpts holds the fields for a new inbox capture.
type CreateInboxOpts struct {
	UserID  string
	Content string
	Source  string
}

// ListInboxOpts filters an inbox listing.
type ListInboxOpts struct {
	Status string // unprocessed or processed
	Limit  int
}
