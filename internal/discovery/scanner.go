package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"reqtrace/internal/domain"
)

// Progress receives scan completion updates.
type Progress interface {
	Start(total int)
	Update(completed, tests int)
	Finish()
}

// Scanner walks a project tree for files matching a glob and extracts their
// test declarations. Per-file work is independent and runs on a small worker
// pool; results are re-sorted by (file, identifier) before they are returned
// so parallelism never leaks into cache content.
type Scanner struct {
	skipDirs map[string]bool
	workers  int
	progress Progress
}

// NewScanner creates a Scanner that skips the given dependency directories.
func NewScanner(skipDirs []string, workers int) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{skipDirs: skipMap, workers: workers}
}

// SetProgress sets an optional progress sink for fresh scans.
func (s *Scanner) SetProgress(p Progress) {
	s.progress = p
}

// ListFiles returns the sorted, slash-separated relative paths of every file
// under root that matches the glob, excluding skip directories and hidden
// directories. A missing or non-directory root is a fatal error.
func (s *Scanner) ListFiles(root, glob string) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep walking.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") && name != "." {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if MatchGlob(rel, glob) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Scan extracts test records from every file matching the glob under root.
// Unreadable files and malformed bodies are skipped and reported in the
// returned warnings, never aborting the scan.
func (s *Scanner) Scan(root, glob string) ([]domain.TestRecord, []string, error) {
	files, err := s.ListFiles(root, glob)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, nil
	}
	if s.progress != nil {
		s.progress.Start(len(files))
	}

	fileQueue := make(chan string, len(files))
	for _, f := range files {
		fileQueue <- f
	}
	close(fileQueue)

	var (
		mu        sync.Mutex
		records   []domain.TestRecord
		warnings  []string
		completed int
	)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range fileQueue {
				var recs []domain.TestRecord
				var warn string
				content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
				if err != nil {
					warn = fmt.Sprintf("skipped unreadable file %s: %v", rel, err)
				} else {
					var malformed int
					recs, malformed = ExtractTests(rel, string(content))
					if malformed > 0 {
						warn = fmt.Sprintf("skipped %d malformed test body(ies) in %s", malformed, rel)
					}
				}

				mu.Lock()
				records = append(records, recs...)
				if warn != "" {
					warnings = append(warnings, warn)
				}
				completed++
				if s.progress != nil {
					s.progress.Update(completed, len(records))
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if s.progress != nil {
		s.progress.Finish()
	}

	// Deterministic order regardless of worker interleaving.
	sort.Slice(records, func(i, j int) bool {
		if records[i].File != records[j].File {
			return records[i].File < records[j].File
		}
		return records[i].Identifier < records[j].Identifier
	})
	sort.Strings(warnings)

	return records, warnings, nil
}
