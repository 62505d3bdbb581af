package commands

import (
	"fmt"
	"strings"

	"pepper/internal/tools"
	"pepper/internal/ui"
)

// RunTools lists the built-in tool catalog, grouped by provider.
func RunTools(filter string) {
	catalog := tools.All()

	if filter != "" {
		var matched []tools.Tool
		for _, t := range catalog {
			if strings.Contains(t.Name, filter) || t.Category == filter || t.Provider == filter {
				matched = append(matched, t)
			}
		}
		if len(matched) == 0 {
			ui.ShowWarning("Geen tools voor filter %q", filter)
			if hint := tools.Suggest(filter); hint != "" {
				ui.ShowInfo("Bedoelde je %q?", hint)
			}
			return
		}
		catalog = matched
	}

	ui.ShowHeader(fmt.Sprintf("Ingebouwde tools (%d)", len(catalog)))
	current := ""
	for _, t := range catalog {
		if t.Provider != current {
			current = t.Provider
			fmt.Printf("\n %s\n", current)
		}
		fmt.Printf("   %-22s %s\n", t.Name, t.Description)
	}
}
