package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestGlob matches the usual test file layouts at any depth
	DefaultTestGlob = "**/*.{test,spec}.{js,jsx,ts,tsx,mjs,cjs}"
	// DefaultStateDir is where the cache, requirement records and reports live
	DefaultStateDir = ".reqtrace"
	// DefaultCacheFile is the test cache file name
	DefaultCacheFile = "test-cache.json"
	// DefaultRequirementsFile is the requirement records file name
	DefaultRequirementsFile = "requirements.json"
	// DefaultIgnoredFile is the ignored-test list file name
	DefaultIgnoredFile = "ignored-tests.json"
	// DefaultReportFile is the last check report file name
	DefaultReportFile = "last-check.json"
	// DefaultWorkers is the default number of parallel file readers
	DefaultWorkers = 4
)

// DefaultSkipDirs are the dependency and build directories excluded from
// scanning.
var DefaultSkipDirs = []string{
	"node_modules",
	"vendor",
	"bower_components",
	"dist",
	"build",
	"out",
	"coverage",
}
