package dispatch

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"pepper/internal/tools"
)

// defaultProvider is used when a user has no stored preference, or the
// settings layer is unavailable.
const defaultProvider = "microsoft"

// InternalExecutor runs built-in tools against the local store.
type InternalExecutor interface {
	Execute(ctx context.Context, tool string, params tools.Params, userID string) tools.Outcome
}

// Settings resolves per-user preferences.
type Settings interface {
	PrimaryProvider(ctx context.Context, userID string) (string, error)
}

// Call is one tool invocation to route.
type Call struct {
	Tool          string
	Params        tools.Params
	Provider      string // explicit override; empty means auto-detect
	UserID        string
	InputSource   string // where the call came from; defaults to "api"
	OriginalInput string // raw user text, when the call came from chat
	TestMode      int
}

// Config wires a Distributor's collaborators.
type Config struct {
	Internal InternalExecutor
	Bridges  map[string]Bridge // external providers keyed by name
	Settings Settings
	Policy   TracePolicy
	Logger   *log.Logger      // defaults to log.Default()
	Sink     func(RouteTrace) // optional live trace feed
}

// Distributor routes tool calls to the internal handler or an office bridge.
type Distributor struct {
	internal InternalExecutor
	bridges  map[string]Bridge
	settings Settings
	policy   TracePolicy
	logger   *log.Logger
	sink     func(RouteTrace)
}

// New builds a Distributor from its wired collaborators.
func New(cfg Config) *Distributor {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Distributor{
		internal: cfg.Internal,
		bridges:  cfg.Bridges,
		settings: cfg.Settings,
		policy:   cfg.Policy,
		logger:   logger,
		sink:     cfg.Sink,
	}
}

// RouteAndExecute resolves the provider for a call, records the route, then
// either executes or short-circuits per the call's test mode. It never
// returns an error: failures come back inside the result envelope.
func (d *Distributor) RouteAndExecute(ctx context.Context, c Call) Result {
	if c.InputSource == "" {
		c.InputSource = "api"
	}
	if c.Params == nil {
		c.Params = tools.Params{}
	}

	requestID := newRequestID()
	providerName := d.selectProvider(ctx, c)
	label := IntentLabel(c.Tool)

	trace := RouteTrace{
		RequestID:        requestID,
		Timestamp:        time.Now().UTC(),
		InputSource:      c.InputSource,
		DetectedIntent:   label,
		DetectedProvider: c.Provider,
		SelectedProvider: providerName,
		SelectedTool:     c.Tool,
		ToolParams:       c.Params.Clone(),
		OriginalInput:    c.OriginalInput,
		TestMode:         c.TestMode,
	}

	kind := "EXTERNAL"
	if strings.HasPrefix(providerName, "internal") {
		kind = "INTERNAL"
	}
	d.logger.Printf("[%s] ROUTE (%s): %s → %s → %s:%s",
		requestID, kind, c.InputSource, label, providerName, c.Tool)
	if d.sink != nil {
		d.sink(trace)
	}

	switch c.TestMode {
	case TestModeLog:
		return d.finish(Result{
			Success: true,
			Data: map[string]any{
				"status":  "test_mode",
				"message": "Test mode: alleen logging, geen uitvoering",
				"would_execute": map[string]any{
					"tool":     c.Tool,
					"provider": providerName,
					"params":   trace.ToolParams,
				},
			},
		}, trace)
	case TestModeConfirm:
		return d.finish(Result{
			Success:              true,
			RequiresConfirmation: true,
			Data: map[string]any{
				"status":  "awaiting_confirmation",
				"message": "Wacht op bevestiging...",
			},
		}, trace)
	}

	return d.finish(d.execute(ctx, providerName, c, requestID), trace)
}

// ConfirmAndExecute runs a previously previewed call for real. No trace is
// attached; the preview already carried it.
func (d *Distributor) ConfirmAndExecute(ctx context.Context, c Call) Result {
	if c.InputSource == "" {
		c.InputSource = "api"
	}
	if c.Params == nil {
		c.Params = tools.Params{}
	}

	requestID := newRequestID()
	providerName := d.selectProvider(ctx, c)
	d.logger.Printf("[%s] CONFIRM: executing %s:%s", requestID, providerName, c.Tool)

	return d.execute(ctx, providerName, c, requestID)
}

// selectProvider applies the routing rules in order: internal tool groups
// win regardless of any requested provider, then the explicit provider,
// then the provider hint inside the params, then the user's default.
func (d *Distributor) selectProvider(ctx context.Context, c Call) string {
	if group, ok := tools.ProviderFor(c.Tool); ok {
		return group
	}
	if c.Provider != "" {
		return c.Provider
	}
	if hint := c.Params.StringOr("provider", ""); hint != "" {
		return hint
	}
	if d.settings != nil {
		if provider, err := d.settings.PrimaryProvider(ctx, c.UserID); err == nil && provider != "" {
			return provider
		}
	}
	return defaultProvider
}

// resolve turns a provider name into its closed-set representation.
func (d *Distributor) resolve(name string) (Provider, bool) {
	if strings.HasPrefix(name, "internal") {
		return NewInternalProvider(name), true
	}
	bridge, ok := d.bridges[name]
	if !ok {
		return nil, false
	}
	return NewExternalProvider(name, bridge), true
}

func (d *Distributor) execute(ctx context.Context, providerName string, c Call, requestID string) Result {
	prov, ok := d.resolve(providerName)
	if !ok {
		return Result{Error: fmt.Sprintf("Unknown provider: %s", providerName)}
	}

	switch p := prov.(type) {
	case InternalProvider:
		out := d.internal.Execute(ctx, c.Tool, c.Params, c.UserID)
		return Result{Success: out.Success, Data: out.Data, Error: out.Error}
	case ExternalProvider:
		raw, err := p.Bridge().Execute(ctx, c.Tool, externalParams(c.Params), c.UserID, requestID)
		if err != nil {
			return Result{Error: err.Error()}
		}
		return resultFromMap(raw)
	}
	return Result{Error: fmt.Sprintf("Unknown provider: %s", providerName)}
}

func (d *Distributor) finish(r Result, trace RouteTrace) Result {
	if d.policy.attach(trace.TestMode) {
		r.RouteTrace = trace.ConsoleLog()
	}
	return r
}

// externalParams drops the provider routing hint before a call goes out.
func externalParams(p tools.Params) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if k == "provider" {
			continue
		}
		out[k] = v
	}
	return out
}

// AvailableTools lists tools for one provider, or every provider when the
// name is empty. Unreachable bridges are skipped with a warning. An unknown
// external name falls back to querying all bridges.
func (d *Distributor) AvailableTools(ctx context.Context, provider string) []map[string]any {
	var out []map[string]any

	if provider == "" || strings.HasPrefix(provider, "internal") {
		for _, t := range tools.All() {
			if provider != "" && t.Provider != provider {
				continue
			}
			out = append(out, toolMap(t))
		}
		if provider != "" {
			return out
		}
	}

	names := d.bridgeNames()
	if provider != "" {
		if _, ok := d.bridges[provider]; ok {
			names = []string{provider}
		}
	}

	for _, name := range names {
		external, err := d.bridges[name].Tools(ctx)
		if err != nil {
			d.logger.Printf("[dispatch] tools for %s unavailable: %v", name, err)
			continue
		}
		for _, t := range external {
			t["provider"] = name
			out = append(out, t)
		}
	}
	return out
}

func (d *Distributor) bridgeNames() []string {
	names := make([]string, 0, len(d.bridges))
	for name := range d.bridges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toolMap(t tools.Tool) map[string]any {
	m := map[string]any{
		"name":         t.Name,
		"description":  t.Description,
		"input_schema": t.InputSchema,
		"provider":     t.Provider,
	}
	if t.Category != "" {
		m["category"] = t.Category
	}
	return m
}

var intentLabels = map[string]string{
	"create_calendar_event": "calendar:create",
	"list_calendar_events":  "calendar:list",
	"update_calendar_event": "calendar:update",
	"delete_calendar_event": "calendar:delete",
	"create_reminder":       "calendar:reminder",
	"create_task":           "task:create",
	"list_tasks":            "task:list",
	"complete_task":         "task:complete",
	"update_task":           "task:update",
	"delete_task":           "task:delete",
	"create_note":           "note:create",
	"list_notes":            "note:list",
	"update_note":           "note:update",
	"delete_note":           "note:delete",
	"create_person":         "person:create",
	"list_persons":          "person:list",
	"list_inbox":            "inbox:list",
}

// IntentLabel maps a tool name to its category:action label for traces.
func IntentLabel(tool string) string {
	if label, ok := intentLabels[tool]; ok {
		return label
	}
	return "unknown:" + tool
}
