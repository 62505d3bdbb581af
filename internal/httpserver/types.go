package httpserver

import "pepper/internal/intent"

// ExecuteRequest represents the incoming tool execution request
type ExecuteRequest struct {
	ToolName      string         `json:"tool_name"`
	ToolParams    map[string]any `json:"tool_params,omitempty"`
	Provider      string         `json:"provider,omitempty"`       // Explicit provider: "google" or "microsoft"
	InputSource   string         `json:"input_source,omitempty"`   // Where the call came from (e.g. "chat", "api")
	OriginalInput string         `json:"original_input,omitempty"` // Raw user text that produced this call
	TestMode      int            `json:"test_mode,omitempty"`      // 0 = execute, 1 = log only, 2 = ask confirmation
	UserID        string         `json:"user_id,omitempty"`
}

// ConfirmRequest represents the follow-up request after an
// awaiting_confirmation envelope
type ConfirmRequest struct {
	ToolName   string         `json:"tool_name"`
	ToolParams map[string]any `json:"tool_params,omitempty"`
	Provider   string         `json:"provider,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
}

// DetectIntentRequest represents the intent detection request
type DetectIntentRequest struct {
	UserInput string `json:"user_input"`
}

// DetectIntentResponse mirrors intent.Detected minus the raw input, plus the
// date context a caller needs to resolve relative dates itself
type DetectIntentResponse struct {
	IntentType      string             `json:"intent_type"`
	Confidence      float64            `json:"confidence"`
	Source          string             `json:"source"` // "command" or "chat"
	Provider        string             `json:"provider,omitempty"`
	ExtractedParams map[string]string  `json:"extracted_params"`
	NeedsExtraction bool               `json:"needs_claude_extraction"`
	DateContext     intent.DateContext `json:"date_context"`
}

// ToolsResponse represents the tool catalog response
type ToolsResponse struct {
	Tools           []map[string]any `json:"tools"`
	PrimaryProvider string           `json:"primary_provider"`
}

// ProviderHealthResponse represents per-provider backend health. Status is
// "healthy" when every probed provider is, "degraded" otherwise
type ProviderHealthResponse struct {
	Status    string                    `json:"status"`
	Providers map[string]map[string]any `json:"providers"`
}

// ChatRequest represents an assistant conversation turn
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse represents the assistant's reply
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// VersionResponse represents the version endpoint response
type VersionResponse struct {
	Version string `json:"version"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
