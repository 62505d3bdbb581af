package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pepper/internal/dispatch"
	"pepper/internal/office"
)

// postJSON sends an authenticated JSON request through the server's mux.
func postJSON(t *testing.T, server *HTTPServer, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	var err error
	if strPayload, ok := payload.(string); ok {
		body = []byte(strPayload)
	} else {
		body, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.mux.ServeHTTP(w, req)
	return w
}

func getAuthed(t *testing.T, server *HTTPServer, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	server.mux.ServeHTTP(w, req)
	return w
}

// TestExecuteValidation tests request validation for POST /mcp/execute.
func TestExecuteValidation(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name           string
		payload        any
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Missing tool_name",
			payload:        map[string]any{"tool_params": map[string]any{"title": "x"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field 'tool_name' is required",
		},
		{
			name:           "Invalid test_mode",
			payload:        map[string]any{"tool_name": "create_task", "test_mode": 3},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "test_mode must be 0, 1 or 2",
		},
		{
			name:           "Negative test_mode",
			payload:        map[string]any{"tool_name": "create_task", "test_mode": -1},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "test_mode must be 0, 1 or 2",
		},
		{
			name:           "Invalid JSON body",
			payload:        "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, server, "/mcp/execute", tt.payload)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedError != "" {
				var errResp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
					t.Fatalf("Failed to decode error response: %v", err)
				}
				if errResp.Error != tt.expectedError {
					t.Errorf("Expected error %q, got %q", tt.expectedError, errResp.Error)
				}
			}
		})
	}
}

// TestExecuteInternalTool tests a full internal round trip over HTTP.
func TestExecuteInternalTool(t *testing.T) {
	server, bridge := newTestServer(t)

	w := postJSON(t, server, "/mcp/execute", map[string]any{
		"tool_name":   "create_task",
		"tool_params": map[string]any{"title": "Rapport afmaken"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var result dispatch.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}

	if msg, _ := result.Data["message"].(string); msg != "Taak 'Rapport afmaken' aangemaakt (#1)" {
		t.Errorf("Unexpected message: %q", msg)
	}

	if bridge.calls != 0 {
		t.Errorf("Internal tool must not reach the bridge, got %d calls", bridge.calls)
	}
}

// TestExecuteExternalTool tests that calendar tools reach the bridge.
func TestExecuteExternalTool(t *testing.T) {
	server, bridge := newTestServer(t)
	bridge.result = map[string]any{
		"success": true,
		"data":    map[string]any{"event_id": "evt-1"},
	}

	w := postJSON(t, server, "/mcp/execute", map[string]any{
		"tool_name":   "create_calendar_event",
		"tool_params": map[string]any{"title": "Lunch", "provider": "google"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result dispatch.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}

	if id, _ := result.Data["event_id"].(string); id != "evt-1" {
		t.Errorf("Expected event_id evt-1, got %v", result.Data)
	}

	if bridge.lastTool != "create_calendar_event" {
		t.Errorf("Bridge saw tool %q", bridge.lastTool)
	}

	if bridge.lastUser != testUserID {
		t.Errorf("Expected default user %q, got %q", testUserID, bridge.lastUser)
	}

	if _, ok := bridge.lastParams["provider"]; ok {
		t.Error("provider hint should be stripped before the bridge call")
	}
}

// TestExecuteTestMode tests that test_mode=1 previews without executing.
func TestExecuteTestMode(t *testing.T) {
	server, bridge := newTestServer(t)

	w := postJSON(t, server, "/mcp/execute", map[string]any{
		"tool_name":   "create_calendar_event",
		"tool_params": map[string]any{"title": "Lunch"},
		"provider":    "google",
		"test_mode":   1,
	})

	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if raw["success"] != true {
		t.Fatalf("Expected success, got %v", raw)
	}

	data, _ := raw["data"].(map[string]any)
	if data["status"] != "test_mode" {
		t.Errorf("Expected status test_mode, got %v", data["status"])
	}
	if data["message"] != "Test mode: alleen logging, geen uitvoering" {
		t.Errorf("Unexpected message: %v", data["message"])
	}

	if _, ok := raw["route_trace"]; !ok {
		t.Error("Expected route_trace in test mode response")
	}

	if bridge.calls != 0 {
		t.Errorf("Test mode must not execute, bridge saw %d calls", bridge.calls)
	}
}

// TestExecuteErrorEnvelope tests that backend failures stay inside the
// envelope with HTTP 200.
func TestExecuteErrorEnvelope(t *testing.T) {
	server, bridge := newTestServer(t)
	bridge.err = errors.New("MCP returned 500: kapot")

	w := postJSON(t, server, "/mcp/execute", map[string]any{
		"tool_name": "create_calendar_event",
		"provider":  "google",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result dispatch.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Success {
		t.Fatal("Expected failure envelope")
	}

	if result.Error != "MCP returned 500: kapot" {
		t.Errorf("Unexpected error: %q", result.Error)
	}
}

// TestConfirmEndpoint tests POST /mcp/confirm.
func TestConfirmEndpoint(t *testing.T) {
	server, bridge := newTestServer(t)
	bridge.result = map[string]any{
		"success": true,
		"data":    map[string]any{"event_id": "evt-9"},
	}

	w := postJSON(t, server, "/mcp/confirm", map[string]any{
		"tool_name":   "create_calendar_event",
		"tool_params": map[string]any{"title": "Lunch"},
		"provider":    "google",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if raw["success"] != true {
		t.Fatalf("Expected success, got %v", raw)
	}

	if _, ok := raw["route_trace"]; ok {
		t.Error("Confirmed execution must not carry a route trace")
	}

	if bridge.calls != 1 {
		t.Errorf("Expected 1 bridge call, got %d", bridge.calls)
	}
}

// TestConfirmValidation tests that confirm requires tool_name.
func TestConfirmValidation(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/mcp/confirm", map[string]any{
		"tool_params": map[string]any{"title": "x"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errResp.Error != "field 'tool_name' is required" {
		t.Errorf("Unexpected error: %q", errResp.Error)
	}
}

// TestDetectIntentEndpoint tests POST /mcp/detect-intent.
func TestDetectIntentEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/mcp/detect-intent", map[string]any{
		"user_input": "#taak melk kopen",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var resp DetectIntentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.IntentType != "task:create" {
		t.Errorf("Expected intent task:create, got %q", resp.IntentType)
	}

	if resp.Source != "command" {
		t.Errorf("Expected source command, got %q", resp.Source)
	}

	if resp.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %v", resp.Confidence)
	}

	if resp.DateContext.Today == "" {
		t.Error("Expected a populated date context")
	}
}

// TestDetectIntentValidation tests input validation for detect-intent.
func TestDetectIntentValidation(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name          string
		payload       any
		expectedError string
	}{
		{
			name:          "Missing user_input",
			payload:       map[string]any{},
			expectedError: "field 'user_input' is required",
		},
		{
			name:          "Input too long",
			payload:       map[string]any{"user_input": strings.Repeat("a", 5001)},
			expectedError: "user_input exceeds 5000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, server, "/mcp/detect-intent", tt.payload)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", w.Code)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}

			if errResp.Error != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, errResp.Error)
			}
		})
	}
}

// TestToolsEndpoint tests GET /mcp/tools.
func TestToolsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := getAuthed(t, server, "/mcp/tools")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp ToolsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// 12 internal tools plus the fake bridge's single calendar tool.
	if len(resp.Tools) != 13 {
		t.Errorf("Expected 13 tools, got %d", len(resp.Tools))
	}

	if resp.PrimaryProvider != "microsoft" {
		t.Errorf("Expected primary provider microsoft, got %q", resp.PrimaryProvider)
	}
}

// TestToolsEndpointFiltered tests the ?provider= narrowing.
func TestToolsEndpointFiltered(t *testing.T) {
	server, _ := newTestServer(t)

	w := getAuthed(t, server, "/mcp/tools?provider=internal_tasks")

	var resp ToolsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Tools) != 5 {
		t.Errorf("Expected 5 task tools, got %d", len(resp.Tools))
	}

	for _, tool := range resp.Tools {
		if tool["provider"] != "internal_tasks" {
			t.Errorf("Unexpected provider %v for %v", tool["provider"], tool["name"])
		}
	}
}

// TestProviderHealthEndpoint tests GET /mcp/health aggregation.
func TestProviderHealthEndpoint(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok", "service": "google-office"}`))
	}))
	defer healthy.Close()

	server, _ := newTestServer(t)
	server.probes = map[string]HealthProber{
		"google":    office.NewClient(healthy.URL),
		"microsoft": office.NewClient("http://127.0.0.1:1"),
	}

	w := getAuthed(t, server, "/mcp/health")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp ProviderHealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "degraded" {
		t.Errorf("Expected degraded, got %q", resp.Status)
	}

	if resp.Providers["google"]["status"] != "healthy" {
		t.Errorf("Expected google healthy, got %v", resp.Providers["google"])
	}

	if resp.Providers["google"]["service"] != "google-office" {
		t.Errorf("Expected backend body merged in, got %v", resp.Providers["google"])
	}

	if resp.Providers["microsoft"]["status"] != "unreachable" {
		t.Errorf("Expected microsoft unreachable, got %v", resp.Providers["microsoft"])
	}
}
