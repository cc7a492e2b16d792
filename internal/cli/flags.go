package cli

import "reqtrace/internal/config"

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath: f.ProjectPath,
		Glob:        f.Glob,
		Fresh:       f.Fresh,
		Filter:      f.Filter,
		JSON:        f.JSON,
		Workers:     f.Workers,
		Reason:      f.Reason,
	}
}
