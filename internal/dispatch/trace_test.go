package dispatch

import (
	"strings"
	"testing"
	"time"

	"pepper/internal/tools"
)

// TestConsoleLog verifies the rendered path and detail truncation.
func TestConsoleLog(t *testing.T) {
	long := strings.Repeat("a", 150)
	trace := RouteTrace{
		RequestID:        "abc12345",
		Timestamp:        time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC),
		InputSource:      "chat",
		DetectedIntent:   "calendar:create",
		DetectedProvider: "",
		SelectedProvider: "google",
		SelectedTool:     "create_calendar_event",
		ToolParams:       tools.Params{"title": "Lunch"},
		OriginalInput:    long,
		TestMode:         1,
	}

	entry := trace.ConsoleLog()
	if entry["request_id"] != "abc12345" {
		t.Errorf("Unexpected request_id: %v", entry["request_id"])
	}
	if entry["path"] != "chat → calendar:create → google:create_calendar_event" {
		t.Errorf("Unexpected path: %v", entry["path"])
	}
	if entry["test_mode"] != 1 {
		t.Errorf("Unexpected test_mode: %v", entry["test_mode"])
	}
	if entry["timestamp"] != "2025-11-15T10:00:00Z" {
		t.Errorf("Unexpected timestamp: %v", entry["timestamp"])
	}

	details, _ := entry["details"].(map[string]any)
	if details["detected_provider"] != "" || details["selected_mcp"] != "google" {
		t.Errorf("Unexpected provider details: %v", details)
	}
	if details["tool_name"] != "create_calendar_event" {
		t.Errorf("Unexpected tool_name: %v", details["tool_name"])
	}
	params, _ := details["tool_params"].(map[string]any)
	if params["title"] != "Lunch" {
		t.Errorf("Expected params under tool_params, got %v", details)
	}
	truncated, _ := details["original_input"].(string)
	if len(truncated) != 103 || !strings.HasSuffix(truncated, "...") {
		t.Errorf("Expected 100 chars plus ellipsis, got %d chars", len(truncated))
	}
}

// TestConsoleLogShortInput verifies short input is kept whole.
func TestConsoleLogShortInput(t *testing.T) {
	trace := RouteTrace{OriginalInput: "korte tekst", ToolParams: tools.Params{}}
	details, _ := trace.ConsoleLog()["details"].(map[string]any)
	if details["original_input"] != "korte tekst" {
		t.Errorf("Expected untruncated input, got %v", details["original_input"])
	}
}

// TestParseTracePolicy verifies the config spellings round-trip.
func TestParseTracePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected TracePolicy
		wantErr  bool
	}{
		{"", TraceTestOnly, false},
		{"test-only", TraceTestOnly, false},
		{"always", TraceAlways, false},
		{"never", TraceNever, false},
		{"sometimes", TraceTestOnly, true},
	}

	for _, tt := range tests {
		policy, err := ParseTracePolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTracePolicy(%q): unexpected error state %v", tt.input, err)
			continue
		}
		if policy != tt.expected {
			t.Errorf("ParseTracePolicy(%q): expected %v, got %v", tt.input, tt.expected, policy)
		}
	}

	if TraceAlways.String() != "always" || TraceTestOnly.String() != "test-only" || TraceNever.String() != "never" {
		t.Error("Unexpected policy spellings")
	}
}
