package commands

import (
	"github.com/spf13/cobra"

	"pepper/internal/config"
)

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pepper server",
	Long:  "Start the HTTP API and MCP SSE endpoint on one port, plus the daily digest scheduler. When stdin is a pipe, also speak MCP over stdio.",
	Run: func(cmd *cobra.Command, args []string) {
		RunServe()
	},
}

// DetectCmd represents the detect command
var DetectCmd = &cobra.Command{
	Use:   "detect [text]",
	Short: "Detect the intent of a message",
	Long:  "Run the intent detector on a message and print the verdict. Without text (or with -i) an interactive inspector starts.",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		interactive, _ := cmd.Flags().GetBool("interactive")
		jsonOut, _ := cmd.Flags().GetBool("json")
		RunDetect(args, interactive, jsonOut)
	},
}

// ToolsCmd represents the tools command
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the built-in tool catalog",
	Long:  "List the built-in tools per provider group. Office bridge tools are discovered at runtime and not shown here.",
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")
		RunTools(filter)
	},
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Route and execute one tool call",
	Long:  "Route a tool call through the local wiring: first a dry-run preview of where it would go, then a confirmation prompt, then the real execution.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		params, _ := cmd.Flags().GetStringArray("param")
		provider, _ := cmd.Flags().GetString("provider")
		user, _ := cmd.Flags().GetString("user")
		autoYes, _ := cmd.Flags().GetBool("yes")
		RunRoute(args[0], params, provider, user, autoYes)
	},
}

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"c"},
	Short:   "Manage configuration",
	Long:    "Read and write pepper's configuration file",
}

// ConfigSetCmd represents the config set command
var ConfigSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Secret keys prompt for the value without echo when it is omitted.",
	Args:  cobra.RangeArgs(1, 2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigSet(args[0], args[1:])
	},
}

// ConfigGetCmd represents the config get command
var ConfigGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration values",
	Long:  "Get one configuration value, or show the whole configuration when no key is given",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigGet(args)
	},
}

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show pepper version",
	Long:  "Show the version of the pepper server",
	Run: func(cmd *cobra.Command, args []string) {
		RunVersion()
	},
}

func init() {
	DetectCmd.Flags().BoolP("interactive", "i", false, "Start the interactive intent inspector")
	DetectCmd.Flags().Bool("json", false, "Print the full verdict as JSON")

	ToolsCmd.Flags().String("filter", "", "Only show tools matching this name, category or provider")

	RunCmd.Flags().StringArray("param", nil, "Tool parameter as key=value (repeatable)")
	RunCmd.Flags().String("provider", "", "Force a provider instead of auto-detection")
	RunCmd.Flags().String("user", "", "User to run the call as")
	RunCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	ConfigCmd.AddCommand(ConfigSetCmd)
	ConfigCmd.AddCommand(ConfigGetCmd)
}
