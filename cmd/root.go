// Package cmd implements the planloop CLI using cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/planloop/planloop/internal/config"
)

const version = "0.1.0"
const logo = "🌀"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "planloop",
	Short: logo + " planloop — an agent template with environment-driven configuration",
	Long: logo + ` planloop — a template scaffold for LLM-driven agents.

The plan/execute/observe workflow ships as stubs for you to fill in.
Configuration comes from environment variables, optionally via a local
.env file; the README lists every recognised variable.`,
	// Surface .env values before any subcommand reads the environment.
	// Variables already exported in the shell keep precedence.
	PersistentPreRun: func(*cobra.Command, []string) {
		_ = godotenv.Load()
	},
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

// configureLogging installs the default text logger at the configured level.
func configureLogging(cfg *config.ProjectConfig) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(h))
}
