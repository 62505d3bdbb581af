// Package httpserver exposes pepper's REST API: tool execution and
// confirmation, intent detection, provider health, the live route trace
// feed and the assistant chat endpoint.
package httpserver

import (
	"context"
	"log"
	"net/http"

	"pepper/internal/dispatch"
	"pepper/internal/intent"
	"pepper/internal/store"
)

// HealthProber reports one backend's reachability. office.Client satisfies it.
type HealthProber interface {
	Health(ctx context.Context) (int, map[string]any, error)
}

// ChatFunc runs one assistant conversation turn and returns the reply.
type ChatFunc func(ctx context.Context, sessionID, userID, message string) (string, error)

// Options carries the server's dependencies.
type Options struct {
	Tokens      []string
	Version     string
	Distributor *dispatch.Distributor
	Detector    *intent.Detector
	Store       *store.Store
	Chat        ChatFunc // nil disables /api/v1/chat
	Probes      map[string]HealthProber
	DefaultUser string
	Feed        *TraceFeed // nil creates a fresh feed
}

// HTTPServer represents the HTTP API server
type HTTPServer struct {
	mux     *http.ServeMux
	server  *http.Server
	tokens  []string
	version string

	distributor *dispatch.Distributor
	detector    *intent.Detector
	store       *store.Store
	chat        ChatFunc
	probes      map[string]HealthProber
	defaultUser string
	feed        *TraceFeed
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(opts Options) *HTTPServer {
	feed := opts.Feed
	if feed == nil {
		feed = NewTraceFeed()
	}

	s := &HTTPServer{
		mux:         http.NewServeMux(),
		tokens:      opts.Tokens,
		version:     opts.Version,
		distributor: opts.Distributor,
		detector:    opts.Detector,
		store:       opts.Store,
		chat:        opts.Chat,
		probes:      opts.Probes,
		defaultUser: opts.DefaultUser,
		feed:        feed,
	}

	// Register routes
	s.registerRoutes()

	return s
}

// Feed returns the trace feed so it can be wired as the distributor's sink.
func (s *HTTPServer) Feed() *TraceFeed {
	return s.feed
}

// registerRoutes sets up all HTTP routes with middleware
func (s *HTTPServer) registerRoutes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/health", loggingMiddleware(s.handleHealth))

	// Authenticated endpoints
	s.mux.HandleFunc("/mcp/execute", loggingMiddleware(s.authMiddleware(jsonContentTypeMiddleware(s.handleExecute))))
	s.mux.HandleFunc("/mcp/confirm", loggingMiddleware(s.authMiddleware(jsonContentTypeMiddleware(s.handleConfirm))))
	s.mux.HandleFunc("/mcp/detect-intent", loggingMiddleware(s.authMiddleware(jsonContentTypeMiddleware(s.handleDetectIntent))))
	s.mux.HandleFunc("/mcp/tools", loggingMiddleware(s.authMiddleware(s.handleTools)))
	s.mux.HandleFunc("/mcp/health", loggingMiddleware(s.authMiddleware(s.handleProviderHealth)))
	s.mux.HandleFunc("/mcp/trace/ws", loggingMiddleware(s.authMiddleware(s.handleTraceWS)))
	s.mux.HandleFunc("/api/v1/chat", loggingMiddleware(s.authMiddleware(jsonContentTypeMiddleware(s.handleChat))))
	s.mux.HandleFunc("/api/v1/version", loggingMiddleware(s.authMiddleware(s.handleVersion)))
}

// Handle mounts an extra handler on the server's mux, e.g. the MCP SSE endpoint.
func (s *HTTPServer) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// ListenAndServe starts the HTTP server on the given address
func (s *HTTPServer) ListenAndServe(addr string) error {
	log.Printf("[HTTP] Starting server on %s", addr)
	log.Printf("[HTTP] Registered %d valid tokens", len(s.tokens))
	s.server = &http.Server{Addr: addr, Handler: s.mux}
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
