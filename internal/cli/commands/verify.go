package commands

import (
	"reqtrace/internal/config"
	"reqtrace/internal/correlate"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// VerifyCommand handles the verify command
type VerifyCommand struct {
	config     *config.Config
	correlator *correlate.Correlator
}

// NewVerifyCommand creates a new VerifyCommand
func NewVerifyCommand(cfg *config.Config, correlator *correlate.Correlator) *VerifyCommand {
	return &VerifyCommand{
		config:     cfg,
		correlator: correlator,
	}
}

// Execute runs the command
func (vc *VerifyCommand) Execute(cmd *cobra.Command, args []string) error {
	manager := newCacheManager(vc.config, nil)
	result, _, err := manager.GetTests(vc.config.GetProjectPath(), vc.config.TestGlob, vc.config.Flags.Fresh)
	if err != nil {
		return err
	}

	if err := vc.correlator.Verify(args[0], result.Records); err != nil {
		return err
	}
	color.Green("✓ %s assessed against current test content", args[0])
	return nil
}
