package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

// TestChatEndpoint tests a chat round trip with session defaulting.
func TestChatEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/api/v1/chat", map[string]any{
		"message": "wat staat er op mijn agenda?",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var resp ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Reply != "echo: wat staat er op mijn agenda?" {
		t.Errorf("Unexpected reply: %q", resp.Reply)
	}

	if resp.SessionID != "default" {
		t.Errorf("Expected session 'default', got %q", resp.SessionID)
	}
}

// TestChatValidation tests that a message is required.
func TestChatValidation(t *testing.T) {
	server, _ := newTestServer(t)

	w := postJSON(t, server, "/api/v1/chat", map[string]any{"session_id": "s1"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errResp.Error != "field 'message' is required" {
		t.Errorf("Unexpected error: %q", errResp.Error)
	}
}

// TestChatWithoutAssistant tests the 503 when no assistant is wired.
func TestChatWithoutAssistant(t *testing.T) {
	server, _ := newTestServer(t)
	server.chat = nil

	w := postJSON(t, server, "/api/v1/chat", map[string]any{"message": "hoi"})

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errResp.Error != "assistant is not configured" {
		t.Errorf("Unexpected error: %q", errResp.Error)
	}
}
