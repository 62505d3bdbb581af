package main

import (
	"os"
	// Bundled zoneinfo keeps Europe/Amsterdam available in scratch images.
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pepper/internal/commands"
	"pepper/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "pepper",
	Short: "Personal assistant server with intent routing",
	Long:  "Pepper detects the intent of Dutch chat messages and #commands, routes tool calls to built-in tools or office bridges, and serves them over HTTP, MCP and a chat assistant.",
}

func init() {
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.DetectCmd)
	rootCmd.AddCommand(commands.ToolsCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)

	// A bare `pepper` on a terminal opens the intent inspector.
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			if err := tui.Run(); err != nil {
				os.Exit(1)
			}
			return
		}
		_ = cmd.Help()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
