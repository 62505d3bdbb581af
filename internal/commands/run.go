package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pepper/internal/config"
	"pepper/internal/confirm"
	"pepper/internal/dispatch"
	"pepper/internal/office"
	"pepper/internal/store"
	"pepper/internal/tools"
	"pepper/internal/ui"
)

// RunRoute executes one tool call through the local wiring: a dry-run
// preview of the route first, then the confirmation prompt, then the real
// execution.
func RunRoute(tool string, rawParams []string, provider, userID string, autoYes bool) {
	params, err := parseParams(rawParams)
	if err != nil {
		ui.ShowError("Ongeldige parameter", err)
		os.Exit(1)
	}

	cfg := config.LoadOrDefault()
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		ui.ShowError("Kan database niet openen", err)
		os.Exit(1)
	}
	defer st.Close()

	bridges := map[string]dispatch.Bridge{}
	if cfg.GoogleOfficeURL != "" {
		bridges["google"] = office.NewClient(cfg.GoogleOfficeURL)
	}
	if cfg.MicrosoftOfficeURL != "" {
		bridges["microsoft"] = office.NewClient(cfg.MicrosoftOfficeURL)
	}

	d := dispatch.New(dispatch.Config{
		Internal: tools.NewHandler(st),
		Bridges:  bridges,
		Settings: st,
	})

	if userID == "" {
		userID = cfg.DefaultUser
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	call := dispatch.Call{
		Tool:        tool,
		Params:      params,
		Provider:    provider,
		UserID:      userID,
		InputSource: "cli",
	}

	preview := call
	preview.TestMode = dispatch.TestModeConfirm
	result := d.RouteAndExecute(ctx, preview)
	if !result.Success {
		ui.ShowError("Routeren mislukt", fmt.Errorf("%s", result.Error))
		os.Exit(1)
	}

	if path, ok := result.RouteTrace["path"].(string); ok {
		ui.ShowInfo("Route: %s", path)
	}

	var prompt confirm.Prompt
	if autoYes {
		prompt = confirm.NewAutoPrompt(os.Stdout)
	} else {
		prompt = confirm.NewCLIPrompt(os.Stdin, os.Stdout)
	}

	decision, err := prompt.Confirm(confirm.Pending{
		Tool:     tool,
		Provider: resolvedProvider(result),
		Params:   params,
	})
	if err != nil {
		ui.ShowError("Bevestiging afgebroken", err)
		os.Exit(1)
	}
	if decision != confirm.Execute {
		ui.ShowInfo("Geannuleerd, er is niets uitgevoerd.")
		return
	}

	final := d.ConfirmAndExecute(ctx, call)
	if !final.Success {
		ui.ShowError("Uitvoeren mislukt", fmt.Errorf("%s", final.Error))
		os.Exit(1)
	}
	ui.ShowSuccess("Uitgevoerd: %s", tool)
	if len(final.Data) > 0 {
		ui.ShowJSON(final.Data)
	}
}

// parseParams converts key=value pairs into a parameter bag. Integers and
// booleans are coerced the way a JSON body would deliver them; everything
// else stays a string.
func parseParams(raw []string) (tools.Params, error) {
	params := tools.Params{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("verwacht key=value, kreeg %q", kv)
		}
		switch {
		case v == "true":
			params[k] = true
		case v == "false":
			params[k] = false
		default:
			if n, convErr := strconv.Atoi(v); convErr == nil {
				params[k] = float64(n)
			} else {
				params[k] = v
			}
		}
	}
	return params, nil
}

// resolvedProvider pulls the provider out of the trace's path line,
// "source → intent → provider:tool".
func resolvedProvider(result dispatch.Result) string {
	path, _ := result.RouteTrace["path"].(string)
	parts := strings.Split(path, " → ")
	p, _, ok := strings.Cut(parts[len(parts)-1], ":")
	if !ok {
		return "auto"
	}
	return p
}
