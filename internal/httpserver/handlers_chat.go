package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleChat handles POST /api/v1/chat
func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.chat == nil {
		respondError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "field 'message' is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	userID := req.UserID
	if userID == "" {
		userID = s.defaultUser
	}

	// Assistant turns can involve several model and backend round trips.
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	reply, err := s.chat(ctx, sessionID, userID, req.Message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("chat failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}
