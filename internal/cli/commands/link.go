package commands

import (
	"fmt"

	"reqtrace/internal/config"
	"reqtrace/internal/correlate"
	"reqtrace/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// LinkCommand handles the link command
type LinkCommand struct {
	config     *config.Config
	correlator *correlate.Correlator
}

// NewLinkCommand creates a new LinkCommand
func NewLinkCommand(cfg *config.Config, correlator *correlate.Correlator) *LinkCommand {
	return &LinkCommand{
		config:     cfg,
		correlator: correlator,
	}
}

// Execute runs the command
func (lc *LinkCommand) Execute(cmd *cobra.Command, args []string) error {
	reqID, file, identifier := args[0], args[1], args[2]

	manager := newCacheManager(lc.config, nil)
	result, _, err := manager.GetTests(lc.config.GetProjectPath(), lc.config.TestGlob, lc.config.Flags.Fresh)
	if err != nil {
		return err
	}

	key := domain.TestKey(file, identifier)
	var live *domain.TestRecord
	for i := range result.Records {
		if result.Records[i].Key() == key {
			live = &result.Records[i]
			break
		}
	}
	if live == nil {
		return fmt.Errorf("test %s not found in scan; check the file path and identifier, or retry with --fresh", key)
	}

	if err := lc.correlator.Link(reqID, *live); err != nil {
		return err
	}
	color.Green("✓ linked %s to %s (hash %.12s)", key, reqID, live.Hash)
	return nil
}
