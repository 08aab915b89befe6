// cmd/promptcraft/root.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "promptcraft",
	Short: "PromptCraft Studio backend",
	Long: `promptcraft serves the PromptCraft Studio API: basic vs engineered prompt
comparison, prompt DNA analysis, prompt evaluation, response quality scoring
and prompt library search.

When run without subcommands, it starts the HTTP server (equivalent to 'promptcraft serve').`,
	SilenceUsage: true,
}

// SetVersion sets the version reported by --version and the health probe.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "promptcraft version %s\n" .Version}}`)

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is ./configs/config.yaml)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newLibraryCmd())
}
