package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"pepper/internal/dispatch"
	"pepper/internal/store"
	"pepper/internal/tools"
)

const maxUserInputRunes = 5000

// handleExecute handles POST /mcp/execute. Routing failures come back inside
// a success=false envelope with HTTP 200; a non-200 status means the request
// itself was malformed.
func (s *HTTPServer) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.ToolName == "" {
		respondError(w, http.StatusBadRequest, "field 'tool_name' is required")
		return
	}

	if req.TestMode < dispatch.TestModeOff || req.TestMode > dispatch.TestModeConfirm {
		respondError(w, http.StatusBadRequest, "test_mode must be 0, 1 or 2")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = s.defaultUser
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	result := s.distributor.RouteAndExecute(ctx, dispatch.Call{
		Tool:          req.ToolName,
		Params:        tools.Params(req.ToolParams),
		Provider:      req.Provider,
		UserID:        userID,
		InputSource:   req.InputSource,
		OriginalInput: req.OriginalInput,
		TestMode:      req.TestMode,
	})

	respondJSON(w, http.StatusOK, result)
}

// handleConfirm handles POST /mcp/confirm. It executes unconditionally and
// never carries a route trace.
func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.ToolName == "" {
		respondError(w, http.StatusBadRequest, "field 'tool_name' is required")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = s.defaultUser
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	result := s.distributor.ConfirmAndExecute(ctx, dispatch.Call{
		Tool:     req.ToolName,
		Params:   tools.Params(req.ToolParams),
		Provider: req.Provider,
		UserID:   userID,
	})

	respondJSON(w, http.StatusOK, result)
}

// handleDetectIntent handles POST /mcp/detect-intent
func (s *HTTPServer) handleDetectIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req DetectIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.UserInput == "" {
		respondError(w, http.StatusBadRequest, "field 'user_input' is required")
		return
	}

	if utf8.RuneCountInString(req.UserInput) > maxUserInputRunes {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("user_input exceeds %d characters", maxUserInputRunes))
		return
	}

	detected := s.detector.Detect(req.UserInput)

	respondJSON(w, http.StatusOK, DetectIntentResponse{
		IntentType:      string(detected.Type),
		Confidence:      detected.Confidence,
		Source:          detected.Source,
		Provider:        detected.Provider,
		ExtractedParams: detected.Params,
		NeedsExtraction: detected.NeedsExtraction,
		DateContext:     s.detector.DateContext(),
	})
}

// handleTools handles GET /mcp/tools. An optional ?provider= narrows the
// catalog to one backend.
func (s *HTTPServer) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	list := s.distributor.AvailableTools(ctx, r.URL.Query().Get("provider"))

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = s.defaultUser
	}

	primary := store.DefaultProvider
	if s.store != nil {
		if p, err := s.store.PrimaryProvider(ctx, userID); err == nil {
			primary = p
		}
	}

	respondJSON(w, http.StatusOK, ToolsResponse{
		Tools:           list,
		PrimaryProvider: primary,
	})
}

// handleProviderHealth handles GET /mcp/health. Probes every configured
// backend and reports "degraded" as soon as one is down.
func (s *HTTPServer) handleProviderHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "healthy"
	providers := make(map[string]map[string]any, len(s.probes))
	for name, probe := range s.probes {
		code, body, err := probe.Health(ctx)
		switch {
		case err != nil:
			providers[name] = map[string]any{"status": "unreachable", "error": err.Error()}
			status = "degraded"
		case code != http.StatusOK:
			providers[name] = map[string]any{"status": "unhealthy", "status_code": code}
			status = "degraded"
		default:
			entry := map[string]any{"status": "healthy"}
			for k, v := range body {
				if k != "status" {
					entry[k] = v
				}
			}
			providers[name] = entry
		}
	}

	respondJSON(w, http.StatusOK, ProviderHealthResponse{
		Status:    status,
		Providers: providers,
	})
}
