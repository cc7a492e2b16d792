package domain

// TestLink ties a requirement to one test declaration. The hash is captured
// at link time and resynced by later check passes when it drifts from the
// live fingerprint.
type TestLink struct {
	File       string `json:"file"`
	Identifier string `json:"identifier"`
	Hash       string `json:"hash"`
}

// Key returns the "file:identifier" form of the link.
func (l TestLink) Key() string {
	return TestKey(l.File, l.Identifier)
}

// Requirement is a tracked statement of expected behavior with zero or more
// linked tests. AssessedAt is empty until someone records an assessment.
type Requirement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tests       []TestLink `json:"tests"`
	AssessedAt  string     `json:"assessedAt,omitempty"`
}

// HasAssessment reports whether an assessment is currently recorded.
func (r *Requirement) HasAssessment() bool {
	return r.AssessedAt != ""
}

// IgnoredTest excludes a discovered test from orphan reporting without
// requiring a requirement link.
type IgnoredTest struct {
	File       string `json:"file"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason,omitempty"`
	IgnoredAt  string `json:"ignoredAt"`
}

// Key returns the "file:identifier" form of the ignored entry.
func (t IgnoredTest) Key() string {
	return TestKey(t.File, t.Identifier)
}
