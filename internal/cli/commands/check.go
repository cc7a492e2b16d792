package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"reqtrace/internal/config"
	"reqtrace/internal/correlate"
	"reqtrace/internal/discovery"
	"reqtrace/internal/storage"
	"reqtrace/internal/ui"

	"github.com/spf13/cobra"
)

// CheckCommand handles the check command
type CheckCommand struct {
	config     *config.Config
	storage    storage.Store
	correlator *correlate.Correlator
	formatter  *ui.Formatter
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(cfg *config.Config, st storage.Store, correlator *correlate.Correlator, formatter *ui.Formatter) *CheckCommand {
	return &CheckCommand{
		config:     cfg,
		storage:    st,
		correlator: correlator,
		formatter:  formatter,
	}
}

// Execute runs the command
func (cc *CheckCommand) Execute(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var progress discovery.Progress
	if !cc.config.Flags.JSON {
		progress = ui.NewProgressBar()
	}
	manager := newCacheManager(cc.config, progress)

	result, warnings, err := manager.GetTests(cc.config.GetProjectPath(), cc.config.TestGlob, cc.config.Flags.Fresh)
	if err != nil {
		return err
	}

	report, err := cc.correlator.Check(result.Records)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	report.Meta.FromCache = result.FromCache
	report.Meta.Duration = duration.String()
	report.Meta.DurationSeconds = duration.Seconds()

	if err := cc.storage.SaveReport(report); err != nil {
		return fmt.Errorf("failed to save check report: %w", err)
	}

	if cc.config.Flags.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	cc.formatter.PrintWarnings(warnings)
	cc.formatter.PrintCheckReport(report)
	return nil
}
