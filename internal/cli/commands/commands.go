package commands

import (
	"reqtrace/internal/cache"
	"reqtrace/internal/cli"
	"reqtrace/internal/config"
	"reqtrace/internal/correlate"
	"reqtrace/internal/discovery"
	"reqtrace/internal/storage"
	"reqtrace/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Scan    *ScanCommand
	Check   *CheckCommand
	Orphans *OrphansCommand
	Ignore  *IgnoreCommand
	Link    *LinkCommand
	Verify  *VerifyCommand
	View    *ViewCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	jsonStore := storage.NewJSONStore(cfg)
	filter := discovery.NewFilter()
	formatter := ui.NewFormatter(cfg)
	correlator := correlate.NewCorrelator(jsonStore)
	reportViewer := ui.NewReportViewer(cfg, jsonStore)

	return &Commands{
		Scan:    NewScanCommand(cfg, filter, formatter),
		Check:   NewCheckCommand(cfg, jsonStore, correlator, formatter),
		Orphans: NewOrphansCommand(cfg, correlator, formatter),
		Ignore:  NewIgnoreCommand(cfg, jsonStore),
		Link:    NewLinkCommand(cfg, correlator),
		Verify:  NewVerifyCommand(cfg, correlator),
		View:    NewViewCommand(cfg, jsonStore, reportViewer),
	}
}

// newCacheManager builds the scanner and cache manager from the current
// config. Built per command run so flag overrides (workers, glob) apply.
func newCacheManager(cfg *config.Config, progress discovery.Progress) *cache.Manager {
	scanner := discovery.NewScanner(cfg.SkipDirs, cfg.Workers)
	if progress != nil {
		scanner.SetProgress(progress)
	}
	return cache.NewManager(cfg, scanner)
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	reload := func(cmd *cobra.Command, args []string) error {
		*cfg = *config.Load(flags.ToConfigFlags())
		return nil
	}

	// Scan command
	scanCmd := &cobra.Command{
		Use:     "scan",
		Short:   "Discover tests and list them",
		Long:    "Scan the project tree for test declarations, using the cache when it is still valid",
		RunE:    c.Scan.Execute,
		PreRunE: reload,
	}
	scanCmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore the cache and rescan every file")
	scanCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter tests by identifier pattern (supports wildcards, e.g. 'login*' or '*payment*')")
	scanCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print raw JSON records instead of the list view")
	rootCmd.AddCommand(scanCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:     "check",
		Short:   "Derive verification status for every requirement",
		Long:    "Scan for tests, compare linked fingerprints against live ones, resync drifted hashes, clear stale assessments and report orphaned tests",
		RunE:    c.Check.Execute,
		PreRunE: reload,
	}
	checkCmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore the cache and rescan every file")
	checkCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the full check report as JSON")
	rootCmd.AddCommand(checkCmd)

	// Orphans command
	orphansCmd := &cobra.Command{
		Use:     "orphans",
		Short:   "List tests linked to no requirement",
		Long:    "List discovered tests that appear in no requirement's links and not on the ignored list, without mutating any records",
		RunE:    c.Orphans.Execute,
		PreRunE: reload,
	}
	orphansCmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore the cache and rescan every file")
	rootCmd.AddCommand(orphansCmd)

	// Ignore command
	ignoreCmd := &cobra.Command{
		Use:     "ignore <file> <identifier>",
		Short:   "Exclude a test from orphan reporting",
		Args:    cobra.ExactArgs(2),
		RunE:    c.Ignore.Execute,
		PreRunE: reload,
	}
	ignoreCmd.Flags().StringVarP(&flags.Reason, "reason", "r", "", "Why this test needs no requirement link")
	rootCmd.AddCommand(ignoreCmd)

	// Link command
	linkCmd := &cobra.Command{
		Use:     "link <req-id> <file> <identifier>",
		Short:   "Link a test to a requirement",
		Long:    "Attach a discovered test to a requirement, capturing its current fingerprint; creates the requirement when it does not exist",
		Args:    cobra.ExactArgs(3),
		RunE:    c.Link.Execute,
		PreRunE: reload,
	}
	linkCmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore the cache and rescan every file")
	rootCmd.AddCommand(linkCmd)

	// Verify command
	verifyCmd := &cobra.Command{
		Use:     "verify <req-id>",
		Short:   "Record an assessment for a requirement",
		Long:    "Record that a requirement's linked tests were assessed; fails when any linked test has changed since it was linked",
		Args:    cobra.ExactArgs(1),
		RunE:    c.Verify.Execute,
		PreRunE: reload,
	}
	verifyCmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore the cache and rescan every file")
	rootCmd.AddCommand(verifyCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:     "view",
		Short:   "Browse the last check report interactively",
		RunE:    c.View.Execute,
		PreRunE: reload,
	}
	rootCmd.AddCommand(viewCmd)

	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project", "p", "", "Project root (defaults to the working directory)")
	rootCmd.PersistentFlags().StringVarP(&flags.Glob, "glob", "g", "", "Test file glob (default \"**/*.{test,spec}.{js,jsx,ts,tsx,mjs,cjs}\")")
	rootCmd.PersistentFlags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of parallel file readers")
}
