// Package cache decides whether a prior scan still describes the filesystem
// and rebuilds or reuses accordingly. The cache holds fingerprints only, so a
// cache hit reconstructs records without bodies; the Result type makes that
// explicit.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"reqtrace/internal/config"
	"reqtrace/internal/discovery"
	"reqtrace/internal/domain"
)

// Result is the typed outcome of GetTests. BodiesLoaded is the explicit
// lossy-hit contract: when false the records came from the fingerprint map
// alone and their Body fields are empty. Callers that need body content must
// request a fresh scan.
type Result struct {
	Records      []domain.TestRecord
	FromCache    bool
	BodiesLoaded bool
}

// Manager validates, builds and persists the test cache.
type Manager struct {
	cfg     *config.Config
	scanner *discovery.Scanner
}

// NewManager creates a Manager around the given scanner.
func NewManager(cfg *config.Config, scanner *discovery.Scanner) *Manager {
	return &Manager{cfg: cfg, scanner: scanner}
}

// Build constructs a cache from scan output. Pure aside from reading the
// clock for GeneratedAt.
func Build(tests []domain.TestRecord, mtimes map[string]int64) *domain.TestCache {
	testMap := make(map[string]string, len(tests))
	for _, t := range tests {
		testMap[t.Key()] = t.Hash
	}
	return &domain.TestCache{
		Version:     domain.CacheVersion,
		GeneratedAt: time.Now().Format(time.RFC3339),
		FileMtimes:  mtimes,
		Tests:       testMap,
	}
}

// Load reads the persisted cache. Missing or unparseable files surface as a
// nil cache (forcing a rescan), never as an error: a corrupt cache is a
// schema mismatch, not a user problem.
func (m *Manager) Load() (*domain.TestCache, error) {
	data, err := os.ReadFile(m.cfg.GetCachePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	var cache domain.TestCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, nil
	}
	return &cache, nil
}

// Save replaces the cache file wholesale. Failure here is fatal for the run:
// an unwritable state directory means nothing downstream can persist either.
func (m *Manager) Save(cache *domain.TestCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	path := m.cfg.GetCachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// IsValid reports whether the cache still describes the filesystem: the
// schema version matches, the set of files matching the glob equals the
// cached key set exactly, and every mtime is unchanged. Any single mismatch
// invalidates the whole cache.
func (m *Manager) IsValid(cache *domain.TestCache, root, glob string) bool {
	if cache == nil || cache.Version != domain.CacheVersion {
		return false
	}
	files, err := m.scanner.ListFiles(root, glob)
	if err != nil {
		return false
	}
	if len(files) != len(cache.FileMtimes) {
		return false
	}
	for _, rel := range files {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return false
		}
		cached, ok := cache.FileMtimes[rel]
		if !ok || cached != info.ModTime().UnixMilli() {
			return false
		}
	}
	return true
}

// GetTests returns test records for the project, from the cache when it is
// valid and forceFresh is not set, otherwise from a fresh scan whose cache is
// persisted before returning. Warnings carry recoverable per-file problems.
func (m *Manager) GetTests(root, glob string, forceFresh bool) (*Result, []string, error) {
	if !forceFresh {
		cache, err := m.Load()
		if err != nil {
			return nil, nil, err
		}
		if m.IsValid(cache, root, glob) {
			return &Result{Records: recordsFromCache(cache), FromCache: true, BodiesLoaded: false}, nil, nil
		}
	}

	records, warnings, err := m.scanner.Scan(root, glob)
	if err != nil {
		return nil, nil, err
	}
	files, err := m.scanner.ListFiles(root, glob)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Save(Build(records, fileMtimes(root, files))); err != nil {
		return nil, nil, err
	}
	return &Result{Records: records, FromCache: false, BodiesLoaded: true}, warnings, nil
}

// recordsFromCache rebuilds sorted records from the fingerprint map. Bodies
// were never persisted, so they stay empty.
func recordsFromCache(cache *domain.TestCache) []domain.TestRecord {
	records := make([]domain.TestRecord, 0, len(cache.Tests))
	for key, hash := range cache.Tests {
		file, identifier := domain.SplitTestKey(key)
		records = append(records, domain.TestRecord{File: file, Identifier: identifier, Hash: hash})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].File != records[j].File {
			return records[i].File < records[j].File
		}
		return records[i].Identifier < records[j].Identifier
	})
	return records
}

// fileMtimes stats every listed file, keyed by relative path, in integer
// epoch milliseconds.
func fileMtimes(root string, files []string) map[string]int64 {
	mtimes := make(map[string]int64, len(files))
	for _, rel := range files {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			// File vanished between listing and stat; leave it out so the
			// next validity check notices the difference.
			continue
		}
		mtimes[rel] = info.ModTime().UnixMilli()
	}
	return mtimes
}
