package discovery

import (
	"path"
	"strings"

	"reqtrace/internal/domain"
)

// Filter narrows scan results by test identifier
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// ByName filters records by identifier using wildcard matching.
// Supports patterns like "login*" or "*payment*"; a pattern without
// wildcards is a plain substring match.
func (f *Filter) ByName(records []domain.TestRecord, pattern string) []domain.TestRecord {
	if pattern == "" {
		return records
	}

	var filtered []domain.TestRecord
	for _, rec := range records {
		if matchName(rec.Identifier, pattern) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	if matched, err := path.Match(pattern, name); err == nil && matched {
		return true
	}

	// Fall back to ordered-substring matching for patterns like "*payment*"
	// so multi-word identifiers still hit.
	if strings.Trim(pattern, "*") == "" {
		return false
	}
	rest := name
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return true
}
