package intent

import (
	"testing"
	"time"
)

// testDetector returns a detector pinned to Saturday 2025-11-15 10:00 in
// Europe/Amsterdam so date hints are deterministic.
func testDetector(t *testing.T) *Detector {
	t.Helper()
	d := New()
	d.now = func() time.Time {
		return time.Date(2025, 11, 15, 10, 0, 0, 0, d.tz)
	}
	return d
}

// TestDetectCommands tests the "#command" detection path.
func TestDetectCommands(t *testing.T) {
	d := testDetector(t)

	tests := []struct {
		name            string
		input           string
		wantType        Type
		wantConfidence  float64
		wantProvider    string
		wantNeedsExtrct bool
	}{
		{
			name:            "Task command",
			input:           "#task Rapport maken @Maria",
			wantType:        TaskCreate,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:            "Dutch task command",
			input:           "#taak boodschappen doen",
			wantType:        TaskCreate,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:            "Calendar command",
			input:           "#calendar lunch morgen 12:00",
			wantType:        CalendarCreate,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:            "Afspraak command with provider",
			input:           "#afspraak tandarts in outlook",
			wantType:        CalendarCreate,
			wantConfidence:  1.0,
			wantProvider:    "microsoft",
			wantNeedsExtrct: true,
		},
		{
			name:            "Agenda command is a list",
			input:           "#agenda",
			wantType:        CalendarList,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:            "Reminder command",
			input:           "#herinner me aan de huur",
			wantType:        CalendarReminder,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:            "Note command",
			input:           "#notitie idee voor het weekend",
			wantType:        NoteCreate,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:            "Uppercase command",
			input:           "#TASK iets doen",
			wantType:        TaskCreate,
			wantConfidence:  1.0,
			wantNeedsExtrct: true,
		},
		{
			name:           "Unknown command",
			input:          "#frobnicate alles",
			wantType:       Unknown,
			wantConfidence: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			if got.Type != tt.wantType {
				t.Errorf("Expected type %q, got %q", tt.wantType, got.Type)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Expected confidence %v, got %v", tt.wantConfidence, got.Confidence)
			}
			if got.Provider != tt.wantProvider {
				t.Errorf("Expected provider %q, got %q", tt.wantProvider, got.Provider)
			}
			if got.Source != "command" {
				t.Errorf("Expected source %q, got %q", "command", got.Source)
			}
			if got.NeedsExtraction != tt.wantNeedsExtrct {
				t.Errorf("Expected NeedsExtraction %v, got %v", tt.wantNeedsExtrct, got.NeedsExtraction)
			}
			if got.RawInput != tt.input {
				t.Errorf("Expected raw input preserved, got %q", got.RawInput)
			}
		})
	}
}

// TestDetectChat tests natural-language detection.
func TestDetectChat(t *testing.T) {
	d := testDetector(t)

	tests := []struct {
		name           string
		input          string
		wantType       Type
		wantConfidence float64
		wantProvider   string
	}{
		{
			name:           "Reminder beats calendar keywords",
			input:          "herinner me aan de meeting",
			wantType:       CalendarReminder,
			wantConfidence: 0.8,
		},
		{
			name:           "Calendar create",
			input:          "plan een lunch met Jan",
			wantType:       CalendarCreate,
			wantConfidence: 0.7,
		},
		{
			name:           "Calendar list via interrogative",
			input:          "welke afspraken heb ik morgen",
			wantType:       CalendarList,
			wantConfidence: 0.7,
		},
		{
			name:           "English calendar list",
			input:          "show my calendar",
			wantType:       CalendarList,
			wantConfidence: 0.7,
		},
		{
			name:           "No intent",
			input:          "hallo hoe gaat het",
			wantType:       Unknown,
			wantConfidence: 0.0,
		},
		{
			name:           "Provider detected even without intent",
			input:          "ik gebruik outlook",
			wantType:       Unknown,
			wantConfidence: 0.0,
			wantProvider:   "microsoft",
		},
		{
			name:           "Google provider in chat",
			input:          "zet de vergadering in google agenda",
			wantType:       CalendarCreate,
			wantConfidence: 0.7,
			wantProvider:   "google",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			if got.Type != tt.wantType {
				t.Errorf("Expected type %q, got %q", tt.wantType, got.Type)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Expected confidence %v, got %v", tt.wantConfidence, got.Confidence)
			}
			if got.Provider != tt.wantProvider {
				t.Errorf("Expected provider %q, got %q", tt.wantProvider, got.Provider)
			}
			if got.Source != "chat" {
				t.Errorf("Expected source %q, got %q", "chat", got.Source)
			}
		})
	}
}

// TestDateHints tests relative date resolution against the pinned Saturday.
func TestDateHints(t *testing.T) {
	d := testDetector(t)

	tests := []struct {
		name         string
		input        string
		wantHint     string
		wantDateType string
	}{
		{"Morgen", "#calendar lunch morgen", "2025-11-16", "morgen"},
		{"Overmorgen", "#calendar lunch overmorgen", "2025-11-17", "overmorgen"},
		{"Vandaag", "#calendar lunch vandaag", "2025-11-15", "vandaag"},
		{"Next Wednesday", "#calendar overleg woensdag", "2025-11-19", "woensdag"},
		{"Same weekday advances a full week", "#calendar sport zaterdag", "2025-11-22", "zaterdag"},
		{"Tomorrow by weekday name", "#calendar brunch zondag", "2025-11-16", "zondag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			if got.Params["date_hint"] != tt.wantHint {
				t.Errorf("Expected date_hint %q, got %q", tt.wantHint, got.Params["date_hint"])
			}
			if got.Params["date_type"] != tt.wantDateType {
				t.Errorf("Expected date_type %q, got %q", tt.wantDateType, got.Params["date_type"])
			}
		})
	}
}

// TestWeekdayHintsAlwaysForward tests that every weekday name resolves
// strictly into the future, between 1 and 7 days ahead.
func TestWeekdayHintsAlwaysForward(t *testing.T) {
	d := testDetector(t)
	today := d.now().In(d.tz)

	for _, wd := range daysNL {
		t.Run(wd.name, func(t *testing.T) {
			got := d.Detect("#calendar iets op " + wd.name)
			hint := got.Params["date_hint"]
			if hint == "" {
				t.Fatalf("Expected a date_hint for %q", wd.name)
			}
			parsed, err := time.ParseInLocation("2006-01-02", hint, d.tz)
			if err != nil {
				t.Fatalf("Failed to parse date_hint %q: %v", hint, err)
			}
			days := int(parsed.Sub(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, d.tz)).Hours() / 24)
			if days < 1 || days > 7 {
				t.Errorf("Expected 1-7 days ahead, got %d (%s)", days, hint)
			}
			if parsed.Weekday() != time.Weekday((wd.day+1)%7) {
				t.Errorf("Expected weekday %d, got %v", wd.day, parsed.Weekday())
			}
		})
	}
}

// TestTimeHints tests time extraction patterns.
func TestTimeHints(t *testing.T) {
	d := testDetector(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Colon notation", "#calendar lunch om 12:30", "12:30"},
		{"Dot notation", "#calendar lunch om 9.15", "09:15"},
		{"Hour with u", "#calendar lunch om 14u", "14:00"},
		{"Hour with uur", "#calendar lunch om 9 uur", "09:00"},
		{"No time", "#calendar lunch", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input)
			if got.Params["time_hint"] != tt.want {
				t.Errorf("Expected time_hint %q, got %q", tt.want, got.Params["time_hint"])
			}
		})
	}
}

// TestChatExtractsHints tests that natural-language input carries date and
// time hints alongside the detected intent.
func TestChatExtractsHints(t *testing.T) {
	d := testDetector(t)

	got := d.Detect("ik wil morgen om 14:00 een afspraak")
	if got.Type != CalendarCreate {
		t.Errorf("Expected type %q, got %q", CalendarCreate, got.Type)
	}
	if got.Params["date_hint"] != "2025-11-16" {
		t.Errorf("Expected date_hint %q, got %q", "2025-11-16", got.Params["date_hint"])
	}
	if got.Params["time_hint"] != "14:00" {
		t.Errorf("Expected time_hint %q, got %q", "14:00", got.Params["time_hint"])
	}
}
