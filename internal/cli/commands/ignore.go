package commands

import (
	"time"

	"reqtrace/internal/config"
	"reqtrace/internal/domain"
	"reqtrace/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// IgnoreCommand handles the ignore command
type IgnoreCommand struct {
	config  *config.Config
	storage storage.Store
}

// NewIgnoreCommand creates a new IgnoreCommand
func NewIgnoreCommand(cfg *config.Config, st storage.Store) *IgnoreCommand {
	return &IgnoreCommand{
		config:  cfg,
		storage: st,
	}
}

// Execute runs the command
func (ic *IgnoreCommand) Execute(cmd *cobra.Command, args []string) error {
	entry := domain.IgnoredTest{
		File:       args[0],
		Identifier: args[1],
		Reason:     ic.config.Flags.Reason,
		IgnoredAt:  time.Now().Format(time.RFC3339),
	}
	if err := ic.storage.AppendIgnored(entry); err != nil {
		return err
	}
	color.Green("✓ %s: %q excluded from orphan reporting", entry.File, entry.Identifier)
	return nil
}
