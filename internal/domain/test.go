package domain

import "strings"

// TestRecord is one discovered test declaration. Records are ephemeral and
// recomputed on every scan; only their fingerprints are persisted.
type TestRecord struct {
	File       string `json:"file"`       // relative path, slash-separated
	Identifier string `json:"identifier"` // declared test name, raw (interpolations unevaluated)
	Body       string `json:"body,omitempty"`
	Hash       string `json:"hash"` // 64-char hex sha256 of the body bytes
}

// Key returns the "file:identifier" form used in cache and link lookups.
func (r TestRecord) Key() string {
	return TestKey(r.File, r.Identifier)
}

// Match is a raw matcher hit before body extraction.
type Match struct {
	Identifier string
	BodyStart  int // byte offset of the callback's opening brace
}

// TestKey builds the canonical "file:identifier" key.
func TestKey(file, identifier string) string {
	return file + ":" + identifier
}

// SplitTestKey splits a canonical key back into file and identifier. The file
// part is a relative path and never contains a colon, so the first colon is
// the separator.
func SplitTestKey(key string) (file, identifier string) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) < 2 {
		return key, ""
	}
	return parts[0], parts[1]
}
