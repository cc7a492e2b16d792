package domain

// VerificationStatus describes whether a requirement's linked tests have been
// assessed and whether that assessment still holds. It is derived on every
// check pass and never stored.
type VerificationStatus string

const (
	// StatusNA means the requirement has no linked tests.
	StatusNA VerificationStatus = "n/a"
	// StatusUnverified means tests are linked but no assessment is recorded.
	StatusUnverified VerificationStatus = "unverified"
	// StatusVerified means every linked hash equals its live hash and an
	// assessment is recorded.
	StatusVerified VerificationStatus = "verified"
	// StatusStale means a linked hash drifted from the live hash while an
	// assessment existed. A check pass resolves this to unverified within the
	// same pass, so stale appears in events rather than in persisted results.
	StatusStale VerificationStatus = "stale"
)

// EventType classifies notable transitions surfaced by a check pass.
type EventType string

const (
	// EventStaleAssessment is emitted when a check pass found a drifted hash,
	// resynced it and cleared the requirement's assessment.
	EventStaleAssessment EventType = "stale_assessment_detected"
)

// Event is a notable state transition from a check pass.
type Event struct {
	Type          EventType `json:"type"`
	RequirementID string    `json:"requirementId"`
	TestKeys      []string  `json:"testKeys,omitempty"`
	Message       string    `json:"message,omitempty"`
}

// RequirementStatus is the derived state of one requirement after a check.
type RequirementStatus struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Status      VerificationStatus `json:"status"`
	LinkedTests []TestLink         `json:"linkedTests"`
	Resynced    []string           `json:"resynced,omitempty"` // keys whose hashes were updated
}

// CheckMeta summarizes one check pass.
type CheckMeta struct {
	TotalRequirements int     `json:"total_requirements"`
	Verified          int     `json:"verified"`
	Unverified        int     `json:"unverified"`
	NotApplicable     int     `json:"not_applicable"`
	TotalTests        int     `json:"total_tests"`
	OrphanedTests     int     `json:"orphaned_tests"`
	FromCache         bool    `json:"from_cache"`
	Duration          string  `json:"duration"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Timestamp         string  `json:"timestamp"`
}

// CheckReport is the complete structured output of a check pass.
type CheckReport struct {
	Meta         CheckMeta           `json:"meta"`
	Requirements []RequirementStatus `json:"requirements"`
	Orphans      []TestRecord        `json:"orphans"`
	Events       []Event             `json:"events,omitempty"`
}
