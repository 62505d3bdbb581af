package commands

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"pepper/internal/config"
	"pepper/internal/ui"
)

// secretKeys are prompted for without echo when no value is given on the
// command line, so they stay out of shell history.
var secretKeys = map[string]bool{
	"anthropic_api_key": true,
}

func RunConfigSet(key string, rest []string) {
	cfg := config.LoadOrDefault()

	var value string
	switch {
	case len(rest) > 0:
		value = rest[0]
	case secretKeys[key]:
		fmt.Printf("Waarde voor %s: ", key)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			ui.ShowError("Kan waarde niet lezen", err)
			os.Exit(1)
		}
		value = strings.TrimSpace(string(b))
	default:
		ui.ShowError(fmt.Sprintf("Geen waarde opgegeven voor %q", key), nil)
		os.Exit(1)
	}

	if err := cfg.SetValue(key, value); err != nil {
		ui.ShowError("Instellen mislukt", err)
		os.Exit(1)
	}
	if err := config.SaveConfig(cfg); err != nil {
		ui.ShowError("Opslaan mislukt", err)
		os.Exit(1)
	}
	ui.ShowSuccess("%s ingesteld", key)
}

func RunConfigGet(args []string) {
	cfg := config.LoadOrDefault()

	if len(args) == 1 {
		key := args[0]
		found := false
		for _, k := range config.Keys() {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			ui.ShowError(fmt.Sprintf("Onbekende sleutel %q", key), nil)
			os.Exit(1)
		}
		fmt.Println(cfg.Value(key))
		return
	}

	ui.ShowHeader("Configuratie")
	for _, key := range config.Keys() {
		ui.ShowKeyValue(key, cfg.Value(key))
	}
	fmt.Printf("\n  bestand: %s\n", config.ConfigPath)
}
