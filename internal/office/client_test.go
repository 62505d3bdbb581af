package office

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestExecute verifies the request payload and envelope passthrough.
func TestExecute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/execute" {
			t.Errorf("Expected /execute, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %q", ct)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Decode request failed: %v", err)
		}
		if payload["tool_name"] != "create_calendar_event" {
			t.Errorf("Expected tool_name create_calendar_event, got %v", payload["tool_name"])
		}
		if payload["user_id"] != "user-1" {
			t.Errorf("Expected user_id user-1, got %v", payload["user_id"])
		}
		if payload["request_id"] != "req-abc123" {
			t.Errorf("Expected request_id req-abc123, got %v", payload["request_id"])
		}
		params, _ := payload["params"].(map[string]any)
		if params["title"] != "Standup" {
			t.Errorf("Expected params.title Standup, got %v", params["title"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"event_id": "evt-1"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Execute(context.Background(), "create_calendar_event",
		map[string]any{"title": "Standup"}, "user-1", "req-abc123")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result["success"] != true {
		t.Errorf("Expected success=true, got %v", result["success"])
	}
	data, _ := result["data"].(map[string]any)
	if data["event_id"] != "evt-1" {
		t.Errorf("Expected event_id evt-1, got %v", data["event_id"])
	}
}

// TestExecuteBadStatus verifies the error text carries status and body.
func TestExecuteBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("kapot"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Execute(context.Background(), "create_calendar_event", nil, "user-1", "req-err1")
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if err.Error() != "MCP returned 500: kapot" {
		t.Errorf("Unexpected error text: %q", err.Error())
	}
}

// TestExecuteUnreachable verifies transport errors surface.
func TestExecuteUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if _, err := client.Execute(context.Background(), "x", nil, "user-1", "req-x"); err == nil {
		t.Fatal("Expected error for unreachable bridge")
	}
}

// TestTools verifies catalog fetching.
func TestTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools" {
			t.Errorf("Expected /tools, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tools": []map[string]any{
				{"name": "create_calendar_event"},
				{"name": "list_calendar_events"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	tools, err := client.Tools(context.Background())
	if err != nil {
		t.Fatalf("Tools failed: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(tools))
	}
	if tools[0]["name"] != "create_calendar_event" {
		t.Errorf("Unexpected first tool: %v", tools[0])
	}
}

// TestHealth verifies the status code and body passthrough.
func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected /health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{"status": "starting"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	code, body, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", code)
	}
	if body["status"] != "starting" {
		t.Errorf("Expected body status starting, got %v", body["status"])
	}

	if _, _, err := NewClient("http://127.0.0.1:1").Health(context.Background()); err == nil {
		t.Error("Expected error for unreachable bridge")
	}
}
