package ui

import (
	"fmt"

	"github.com/fatih/color"

	"reqtrace/internal/config"
	"reqtrace/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// PrintTestList displays discovered test records grouped by file.
func (f *Formatter) PrintTestList(records []domain.TestRecord, fromCache bool) {
	if fromCache {
		color.White("Found %d test(s) (from cache)\n", len(records))
	} else {
		color.White("Found %d test(s)\n", len(records))
	}

	lastFile := ""
	for _, rec := range records {
		if rec.File != lastFile {
			fmt.Println()
			color.Cyan("%s", rec.File)
			lastFile = rec.File
		}
		fmt.Printf("  %s %s  ", color.GreenString("•"), rec.Identifier)
		color.New(color.Faint).Printf("%.12s\n", rec.Hash)
	}
}

// PrintWarnings displays recoverable per-file scan problems.
func (f *Formatter) PrintWarnings(warnings []string) {
	for _, w := range warnings {
		color.Yellow("warning: %s", w)
	}
}

// PrintCheckReport displays the summary table and per-requirement statuses of
// a check pass.
func (f *Formatter) PrintCheckReport(report *domain.CheckReport) {
	meta := report.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                  Requirement Verification Check               ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	fmt.Printf("│ %-31s │ ", "Requirements")
	color.White("%-27d │\n", meta.TotalRequirements)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Verified")
	color.Green("%-27d │\n", meta.Verified)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Unverified")
	color.Yellow("%-27d │\n", meta.Unverified)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "No linked tests (n/a)")
	color.White("%-27d │\n", meta.NotApplicable)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Discovered Tests")
	color.White("%-27d │\n", meta.TotalTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Orphaned Tests")
	if meta.OrphanedTests > 0 {
		color.Red("%-27d │\n", meta.OrphanedTests)
	} else {
		color.Green("%-27d │\n", meta.OrphanedTests)
	}
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Duration")
	color.White("%-27s │\n", fmt.Sprintf("%.2fs", meta.DurationSeconds))

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Println()

	for _, status := range report.Requirements {
		switch status.Status {
		case domain.StatusVerified:
			color.Green("✓ %-12s %s", status.ID, status.Title)
		case domain.StatusUnverified:
			color.Yellow("○ %-12s %s", status.ID, status.Title)
		default:
			color.New(color.Faint).Printf("- %-12s %s (no linked tests)\n", status.ID, status.Title)
		}
	}

	for _, event := range report.Events {
		fmt.Println()
		color.Red("! %s: %s", event.RequirementID, event.Message)
		for _, key := range event.TestKeys {
			color.New(color.Faint).Printf("    %s\n", key)
		}
	}

	if len(report.Orphans) > 0 {
		fmt.Println()
		color.Yellow("Orphaned tests (linked to no requirement, not ignored):")
		for _, orphan := range report.Orphans {
			fmt.Printf("  %s %s: %s\n", color.YellowString("•"), orphan.File, orphan.Identifier)
		}
	}

	fmt.Println()
	if meta.Unverified == 0 && meta.OrphanedTests == 0 {
		color.Green("✓ All linked requirements verified, no orphans")
	} else if len(report.Events) > 0 {
		color.Red("✗ %d assessment(s) went stale and were cleared", len(report.Events))
	}
}

// PrintOrphans displays only the orphan list.
func (f *Formatter) PrintOrphans(orphans []domain.TestRecord) {
	if len(orphans) == 0 {
		color.Green("✓ No orphaned tests")
		return
	}
	color.Yellow("%d orphaned test(s):\n", len(orphans))
	for _, orphan := range orphans {
		fmt.Printf("  %s %s: %s\n", color.YellowString("•"), orphan.File, orphan.Identifier)
	}
}
