package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestGlob    string

	// State settings
	StateDir string

	// Scan settings
	Workers  int
	SkipDirs []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	Glob        string
	Fresh       bool
	Filter      string
	JSON        bool
	Workers     int
	Reason      string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath: DefaultProjectPath,
		TestGlob:    DefaultTestGlob,
		StateDir:    DefaultStateDir,
		Workers:     DefaultWorkers,
	}
	cfg.SkipDirs = make([]string, len(DefaultSkipDirs))
	copy(cfg.SkipDirs, DefaultSkipDirs)
	return cfg
}

// Load creates a config, applies .env overrides from the project directory
// and then the given flags. Flags win over environment, environment wins
// over defaults.
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, ".env"))

	if glob := os.Getenv("REQTRACE_GLOB"); glob != "" {
		cfg.TestGlob = glob
	}
	if dir := os.Getenv("REQTRACE_STATE_DIR"); dir != "" {
		cfg.StateDir = dir
	}
	if workers := os.Getenv("REQTRACE_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	if flags.Glob != "" {
		cfg.TestGlob = flags.Glob
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}

	return cfg
}

// GetProjectPath returns the absolute project path so every command reads and
// writes the same state files regardless of cwd.
func (c *Config) GetProjectPath() string {
	if abs, err := filepath.Abs(c.ProjectPath); err == nil {
		return abs
	}
	return c.ProjectPath
}

// GetStateDir returns the full path of the state directory.
func (c *Config) GetStateDir() string {
	return filepath.Join(c.GetProjectPath(), c.StateDir)
}

// GetCachePath returns the full path of the test cache file.
func (c *Config) GetCachePath() string {
	return filepath.Join(c.GetStateDir(), DefaultCacheFile)
}

// GetRequirementsPath returns the full path of the requirement records file.
func (c *Config) GetRequirementsPath() string {
	return filepath.Join(c.GetStateDir(), DefaultRequirementsFile)
}

// GetIgnoredPath returns the full path of the ignored-test list file.
func (c *Config) GetIgnoredPath() string {
	return filepath.Join(c.GetStateDir(), DefaultIgnoredFile)
}

// GetReportPath returns the full path of the last check report file.
func (c *Config) GetReportPath() string {
	return filepath.Join(c.GetStateDir(), DefaultReportFile)
}
