package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"pepper/internal/assistant"
	"pepper/internal/config"
	"pepper/internal/dispatch"
	"pepper/internal/httpserver"
	"pepper/internal/intent"
	mcpserver "pepper/internal/mcp"
	"pepper/internal/notify"
	"pepper/internal/office"
	"pepper/internal/scheduler"
	"pepper/internal/store"
	"pepper/internal/tools"
	"pepper/internal/ui"
)

// RunServe is the single entry point for `pepper serve`.
//
// Always starts (single port, default :8000):
//   - HTTP REST server + daily digest scheduler
//   - SSE MCP handler mounted at /mcp/sse/
//   - stdio MCP when stdin is a pipe (e.g. spawned by an MCP host)
func RunServe() {
	// Detect whether we were spawned with a pipe on stdin (MCP host mode).
	stdioMCP := isStdinPipe()

	// When stdio MCP is active, redirect all log/print output to stderr so we
	// don't corrupt the JSON-RPC stream on stdout.
	var out io.Writer = os.Stdout
	if stdioMCP {
		out = os.Stderr
		log.SetOutput(os.Stderr)
	}

	// ── Config & auth token ───────────────────────────────────────────────────
	cfg := config.LoadOrDefault()
	if len(cfg.HTTPTokens) == 0 {
		token, err := generateToken()
		if err != nil {
			ui.ShowError("Kan geen token genereren", err)
			os.Exit(1)
		}
		cfg.HTTPTokens = []string{token}
		if saveErr := config.SaveConfig(cfg); saveErr != nil {
			fmt.Fprintf(os.Stderr, "[warn] gegenereerd token niet opgeslagen: %v\n", saveErr)
		}
		fmt.Fprintf(out, "Gegenereerd token: %s\n", token)
		fmt.Fprintf(out, "(opgeslagen in %s, gebruik dit als Bearer-token)\n", config.ConfigPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ── Store ─────────────────────────────────────────────────────────────────
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		ui.ShowError("Kan database niet openen", err)
		os.Exit(1)
	}
	defer st.Close()
	fmt.Fprintf(out, "Database: %s\n", cfg.DatabasePath)

	// ── Routing ───────────────────────────────────────────────────────────────
	policy, err := dispatch.ParseTracePolicy(cfg.TracePolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[warn] %v, val terug op test-only\n", err)
	}

	detector := intent.New()
	feed := httpserver.NewTraceFeed()

	bridges := map[string]dispatch.Bridge{}
	probes := map[string]httpserver.HealthProber{}
	if cfg.GoogleOfficeURL != "" {
		c := office.NewClient(cfg.GoogleOfficeURL)
		bridges["google"] = c
		probes["google"] = c
	}
	if cfg.MicrosoftOfficeURL != "" {
		c := office.NewClient(cfg.MicrosoftOfficeURL)
		bridges["microsoft"] = c
		probes["microsoft"] = c
	}

	distributor := dispatch.New(dispatch.Config{
		Internal: tools.NewHandler(st),
		Bridges:  bridges,
		Settings: st,
		Policy:   policy,
		Sink:     feed.Publish,
	})

	// ── Assistant ─────────────────────────────────────────────────────────────
	asst := assistant.New(assistant.Options{
		Detector:    detector,
		Distributor: distributor,
		Store:       st,
		APIKey:      cfg.AnthropicAPIKey,
		BaseURL:     cfg.AnthropicBaseURL,
		Model:       anthropic.Model(cfg.AssistantModel),
	})
	if asst.Ready() {
		fmt.Fprintf(out, "Assistent: Claude-modus\n")
	} else {
		fmt.Fprintf(out, "Assistent: intent-only modus (geen API-key)\n")
	}

	// ── Digest scheduler (goroutine) ──────────────────────────────────────────
	var notifier scheduler.Notifier
	if len(cfg.Webhooks) > 0 {
		ns := make([]notify.Notifier, 0, len(cfg.Webhooks))
		for _, w := range cfg.Webhooks {
			ns = append(ns, notify.NewWebhookNotifier(w.URL, w.Format, w.Extra))
		}
		notifier = notify.NewMultiNotifier(ns...)
	}
	sched := scheduler.New(st, notifier, cfg.DigestSchedule, nil)
	if err := sched.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "[scheduler] startfout: %v\n", err)
	} else {
		defer sched.Stop()
	}

	// ── HTTP REST server + SSE MCP (goroutine) ───────────────────────────────
	fmt.Fprintf(out, "HTTP + MCP SSE server luistert op %s\n", cfg.HTTPBind)
	server := httpserver.NewHTTPServer(httpserver.Options{
		Tokens:      cfg.HTTPTokens,
		Version:     Version,
		Distributor: distributor,
		Detector:    detector,
		Store:       st,
		Chat:        asst.Chat,
		Probes:      probes,
		DefaultUser: cfg.DefaultUser,
		Feed:        feed,
	})
	mcpOpts := mcpserver.Options{
		Version:     Version,
		Distributor: distributor,
		Detector:    detector,
		UserID:      cfg.DefaultUser,
	}
	server.Handle("/mcp/sse/", mcpserver.NewSSEHandler(mcpOpts))
	go func() {
		if err := server.ListenAndServe(cfg.HTTPBind); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[http] fout: %v\n", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
		defer c()
		_ = server.Shutdown(shutCtx)
	}()

	// ── stdio MCP (blocking) or wait for signal ───────────────────────────────
	if stdioMCP {
		// Stdout is now exclusively for the MCP JSON-RPC protocol.
		err := mcpserver.RunServer(ctx, mcpOpts)
		if err != nil && !errors.Is(err, context.Canceled) && err.Error() != "server is closing: EOF" {
			fmt.Fprintf(os.Stderr, "[mcp-stdio] fout: %v\n", err)
			os.Exit(1)
		}
	} else {
		<-ctx.Done()
		fmt.Fprintf(out, "\nAfsluiten...\n")
	}
}

// isStdinPipe returns true when stdin is a pipe or file (not a terminal),
// i.e. pepper was spawned by another process feeding it data.
func isStdinPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// generateToken returns a random 32-character hex token.
func generateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
