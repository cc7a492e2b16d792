package domain

// CacheVersion is the expected schema version of the persisted test cache.
// Any other version invalidates the whole cache and forces a rescan.
const CacheVersion = 1

// TestCache is the persisted result of a scan: the mtime of every file that
// matched the glob and the fingerprint of every discovered test. It is built
// fresh on every cache miss and replaced wholesale, never patched.
type TestCache struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generatedAt"`
	FileMtimes  map[string]int64  `json:"fileMtimes"` // path -> epoch milliseconds
	Tests       map[string]string `json:"tests"`      // "file:identifier" -> hash
}
