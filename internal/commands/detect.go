package commands

import (
	"fmt"
	"os"
	"strings"

	"pepper/internal/intent"
	"pepper/internal/tui"
	"pepper/internal/ui"
)

// RunDetect prints the detector verdict for a message. Without text, or with
// the interactive flag, the live inspector starts instead.
func RunDetect(args []string, interactive, jsonOut bool) {
	if interactive || len(args) == 0 {
		if err := tui.Run(); err != nil {
			ui.ShowError("Inspector kon niet starten", err)
			os.Exit(1)
		}
		return
	}

	text := strings.Join(args, " ")
	d := intent.New().Detect(text)

	if jsonOut {
		ui.ShowJSON(d)
		return
	}

	ui.ShowHeader("Intent")
	ui.ShowKeyValue("intent", string(d.Type))
	ui.ShowKeyValue("confidence", fmt.Sprintf("%.1f", d.Confidence))
	ui.ShowKeyValue("source", d.Source)
	if d.Provider != "" {
		ui.ShowKeyValue("provider", d.Provider)
	}
	for _, key := range []string{"date_hint", "date_type", "time_hint"} {
		if v, ok := d.Params[key]; ok {
			ui.ShowKeyValue(key, v)
		}
	}
	if d.NeedsExtraction {
		ui.ShowInfo("parameters worden door de assistent aangevuld")
	}
}
