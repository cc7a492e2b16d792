package discovery

import (
	"path"
	"strings"
)

// MatchGlob reports whether a slash-separated relative path matches pattern.
// Segments support the usual * and ? wildcards, ** spans any number of
// segments, and {a,b} alternatives expand before matching. A pattern without
// a slash matches against the base name alone, so "*.test.js" finds tests at
// any depth.
func MatchGlob(relPath, pattern string) bool {
	for _, p := range expandBraces(pattern) {
		if matchExpanded(relPath, p) {
			return true
		}
	}
	return false
}

func matchExpanded(relPath, pattern string) bool {
	if !strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, path.Base(relPath))
		return err == nil && ok
	}
	return matchSegments(strings.Split(relPath, "/"), strings.Split(pattern, "/"))
}

func matchSegments(pathSegs, patSegs []string) bool {
	if len(patSegs) == 0 {
		return len(pathSegs) == 0
	}
	if patSegs[0] == "**" {
		for skip := 0; skip <= len(pathSegs); skip++ {
			if matchSegments(pathSegs[skip:], patSegs[1:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegs) == 0 {
		return false
	}
	ok, err := path.Match(patSegs[0], pathSegs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pathSegs[1:], patSegs[1:])
}

// expandBraces expands one level of {a,b,c} alternatives recursively, so
// "**/*.{test,spec}.{js,ts}" becomes four concrete patterns.
func expandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}
	close := strings.IndexByte(pattern[open:], '}')
	if close < 0 {
		return []string{pattern}
	}
	close += open

	var out []string
	for _, alt := range strings.Split(pattern[open+1:close], ",") {
		out = append(out, expandBraces(pattern[:open]+alt+pattern[close+1:])...)
	}
	return out
}
