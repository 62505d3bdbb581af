package dispatch

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"pepper/internal/tools"
)

// Test modes for dry-running tool calls.
const (
	TestModeOff     = 0 // execute normally
	TestModeLog     = 1 // log the route, skip execution
	TestModeConfirm = 2 // hold execution until explicitly confirmed
)

// TracePolicy controls when a route trace is attached to results.
type TracePolicy int

const (
	// TraceTestOnly attaches traces only to dry runs (test mode 1 and 2).
	TraceTestOnly TracePolicy = iota
	// TraceAlways attaches traces to every result.
	TraceAlways
	// TraceNever never attaches traces.
	TraceNever
)

// ParseTracePolicy maps a config string to a policy. Empty means test-only.
func ParseTracePolicy(s string) (TracePolicy, error) {
	switch s {
	case "", "test-only":
		return TraceTestOnly, nil
	case "always":
		return TraceAlways, nil
	case "never":
		return TraceNever, nil
	}
	return TraceTestOnly, fmt.Errorf("unknown trace policy %q", s)
}

// String returns the config spelling of the policy.
func (p TracePolicy) String() string {
	switch p {
	case TraceAlways:
		return "always"
	case TraceNever:
		return "never"
	}
	return "test-only"
}

func (p TracePolicy) attach(testMode int) bool {
	switch p {
	case TraceAlways:
		return true
	case TraceNever:
		return false
	}
	return testMode >= TestModeLog
}

// RouteTrace records how one tool call was routed. DetectedProvider is the
// provider the caller asked for, which is not always the one the call went
// to: internal tools and user defaults can override it.
type RouteTrace struct {
	RequestID        string       `json:"request_id"`
	Timestamp        time.Time    `json:"timestamp"`
	InputSource      string       `json:"input_source"`
	DetectedIntent   string       `json:"detected_intent"`
	DetectedProvider string       `json:"detected_provider,omitempty"`
	SelectedProvider string       `json:"selected_provider"`
	SelectedTool     string       `json:"selected_tool"`
	ToolParams       tools.Params `json:"tool_params"`
	OriginalInput    string       `json:"original_input,omitempty"`
	TestMode         int          `json:"test_mode"`
}

const maxTracedInput = 100

// ConsoleLog renders the trace for display: the routing path on one line
// plus the full decision details, with long original input truncated.
func (t RouteTrace) ConsoleLog() map[string]any {
	return map[string]any{
		"request_id": t.RequestID,
		"timestamp":  t.Timestamp.Format(time.RFC3339),
		"path": fmt.Sprintf("%s → %s → %s:%s",
			t.InputSource, t.DetectedIntent, t.SelectedProvider, t.SelectedTool),
		"details": map[string]any{
			"input_source":      t.InputSource,
			"original_input":    truncate(t.OriginalInput, maxTracedInput),
			"detected_intent":   t.DetectedIntent,
			"detected_provider": t.DetectedProvider,
			"selected_mcp":      t.SelectedProvider,
			"tool_name":         t.SelectedTool,
			"tool_params":       map[string]any(t.ToolParams),
		},
		"test_mode": t.TestMode,
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

func newRequestID() string {
	return uuid.NewString()[:8]
}
