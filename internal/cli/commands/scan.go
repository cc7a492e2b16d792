package commands

import (
	"encoding/json"
	"fmt"

	"reqtrace/internal/config"
	"reqtrace/internal/discovery"
	"reqtrace/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ScanCommand handles the scan command
type ScanCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand(cfg *config.Config, filter *discovery.Filter, formatter *ui.Formatter) *ScanCommand {
	return &ScanCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (sc *ScanCommand) Execute(cmd *cobra.Command, args []string) error {
	manager := newCacheManager(sc.config, nil)

	result, warnings, err := manager.GetTests(sc.config.GetProjectPath(), sc.config.TestGlob, sc.config.Flags.Fresh)
	if err != nil {
		return err
	}

	records := sc.filter.ByName(result.Records, sc.config.Flags.Filter)

	if sc.config.Flags.JSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal records: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	sc.formatter.PrintWarnings(warnings)
	if len(records) == 0 {
		color.Yellow("No tests found")
		return nil
	}
	sc.formatter.PrintTestList(records, result.FromCache)
	return nil
}
