package commands

import (
	"reqtrace/internal/config"
	"reqtrace/internal/correlate"
	"reqtrace/internal/ui"

	"github.com/spf13/cobra"
)

// OrphansCommand handles the orphans command
type OrphansCommand struct {
	config     *config.Config
	correlator *correlate.Correlator
	formatter  *ui.Formatter
}

// NewOrphansCommand creates a new OrphansCommand
func NewOrphansCommand(cfg *config.Config, correlator *correlate.Correlator, formatter *ui.Formatter) *OrphansCommand {
	return &OrphansCommand{
		config:     cfg,
		correlator: correlator,
		formatter:  formatter,
	}
}

// Execute runs the command
func (oc *OrphansCommand) Execute(cmd *cobra.Command, args []string) error {
	manager := newCacheManager(oc.config, nil)

	result, warnings, err := manager.GetTests(oc.config.GetProjectPath(), oc.config.TestGlob, oc.config.Flags.Fresh)
	if err != nil {
		return err
	}

	orphans, err := oc.correlator.Orphans(result.Records)
	if err != nil {
		return err
	}

	oc.formatter.PrintWarnings(warnings)
	oc.formatter.PrintOrphans(orphans)
	return nil
}
