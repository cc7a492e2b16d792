package main

import (
	"fmt"
	"os"

	"reqtrace/internal/cli"
	"reqtrace/internal/cli/commands"
	"reqtrace/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "reqtrace",
		Short:   "Requirement-to-test traceability tracker",
		Long:    `Tracks which automated tests satisfy which declared requirements and detects when a test's content has changed since it was last assessed. Scans source files for test declarations, fingerprints their bodies and correlates them with requirement records.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
