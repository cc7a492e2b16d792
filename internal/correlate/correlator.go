// Package correlate derives per-requirement verification status from live
// test fingerprints. It is the only layer that touches requirement records;
// everything below it is requirement-agnostic.
package correlate

import (
	"fmt"
	"sort"
	"time"

	"reqtrace/internal/domain"
	"reqtrace/internal/storage"
)

// Correlator computes verification status and orphaned tests for one check
// pass. Status is always derived fresh, never stored.
type Correlator struct {
	store storage.Store
}

// NewCorrelator creates a Correlator over the given store.
func NewCorrelator(store storage.Store) *Correlator {
	return &Correlator{store: store}
}

// Check runs the verification state machine over every requirement against
// the live records and detects orphans.
//
// Hash drift is resynced eagerly: a mismatched link hash is rewritten to the
// live value and the requirement's assessment is cleared within the same
// pass, so the persisted state lands on unverified rather than stale. The
// transition itself is surfaced as a StaleAssessmentDetected event. A linked
// test that no longer exists in the live scan counts as drift too; its
// stored hash is kept until the test reappears.
func (c *Correlator) Check(live []domain.TestRecord) (*domain.CheckReport, error) {
	reqs, err := c.store.LoadRequirements()
	if err != nil {
		return nil, err
	}
	ignored, err := c.store.LoadIgnored()
	if err != nil {
		return nil, err
	}

	liveByKey := make(map[string]domain.TestRecord, len(live))
	for _, rec := range live {
		liveByKey[rec.Key()] = rec
	}

	report := &domain.CheckReport{}
	dirty := false

	for i := range reqs {
		req := &reqs[i]
		status := domain.RequirementStatus{ID: req.ID, Title: req.Title}

		var drifted []string
		for j := range req.Tests {
			link := &req.Tests[j]
			liveRec, exists := liveByKey[link.Key()]
			if !exists {
				drifted = append(drifted, link.Key())
				continue
			}
			if link.Hash != liveRec.Hash {
				drifted = append(drifted, link.Key())
				link.Hash = liveRec.Hash
				dirty = true
			}
		}

		switch {
		case len(req.Tests) == 0:
			status.Status = domain.StatusNA
		case !req.HasAssessment():
			status.Status = domain.StatusUnverified
		case len(drifted) == 0:
			status.Status = domain.StatusVerified
		default:
			// Stale: resynced above, now clear the assessment so the
			// observed status is unverified before the pass ends.
			req.AssessedAt = ""
			dirty = true
			status.Status = domain.StatusUnverified
			report.Events = append(report.Events, domain.Event{
				Type:          domain.EventStaleAssessment,
				RequirementID: req.ID,
				TestKeys:      drifted,
				Message:       fmt.Sprintf("%d linked test(s) changed since assessment; hashes resynced, assessment cleared", len(drifted)),
			})
		}
		status.Resynced = drifted
		status.LinkedTests = req.Tests
		report.Requirements = append(report.Requirements, status)
	}

	if dirty {
		if err := c.store.SaveRequirements(reqs); err != nil {
			return nil, err
		}
	}

	report.Orphans = findOrphans(live, reqs, ignored)
	report.Meta = buildMeta(report, len(live))
	return report, nil
}

// Verify records an assessment for one requirement, provided every linked
// hash currently matches its live value.
func (c *Correlator) Verify(requirementID string, live []domain.TestRecord) error {
	reqs, err := c.store.LoadRequirements()
	if err != nil {
		return err
	}

	liveByKey := make(map[string]domain.TestRecord, len(live))
	for _, rec := range live {
		liveByKey[rec.Key()] = rec
	}

	for i := range reqs {
		req := &reqs[i]
		if req.ID != requirementID {
			continue
		}
		if len(req.Tests) == 0 {
			return fmt.Errorf("requirement %s has no linked tests", requirementID)
		}
		for _, link := range req.Tests {
			liveRec, exists := liveByKey[link.Key()]
			if !exists {
				return fmt.Errorf("linked test %s not found in live scan", link.Key())
			}
			if link.Hash != liveRec.Hash {
				return fmt.Errorf("linked test %s has changed since it was linked; run check first", link.Key())
			}
		}
		req.AssessedAt = time.Now().Format(time.RFC3339)
		return c.store.SaveRequirements(reqs)
	}
	return fmt.Errorf("requirement %s not found", requirementID)
}

// Orphans reports live tests linked to no requirement and not on the ignored
// list, without mutating any records. Use Check for the resyncing pass.
func (c *Correlator) Orphans(live []domain.TestRecord) ([]domain.TestRecord, error) {
	reqs, err := c.store.LoadRequirements()
	if err != nil {
		return nil, err
	}
	ignored, err := c.store.LoadIgnored()
	if err != nil {
		return nil, err
	}
	return findOrphans(live, reqs, ignored), nil
}

// Link attaches a live test to a requirement, capturing the hash at link
// time. The requirement is created when it does not exist yet; re-linking an
// existing key refreshes its captured hash.
func (c *Correlator) Link(requirementID string, rec domain.TestRecord) error {
	reqs, err := c.store.LoadRequirements()
	if err != nil {
		return err
	}

	link := domain.TestLink{File: rec.File, Identifier: rec.Identifier, Hash: rec.Hash}
	for i := range reqs {
		req := &reqs[i]
		if req.ID != requirementID {
			continue
		}
		for j := range req.Tests {
			if req.Tests[j].Key() == link.Key() {
				req.Tests[j].Hash = link.Hash
				return c.store.SaveRequirements(reqs)
			}
		}
		req.Tests = append(req.Tests, link)
		return c.store.SaveRequirements(reqs)
	}

	reqs = append(reqs, domain.Requirement{
		ID:    requirementID,
		Title: requirementID,
		Tests: []domain.TestLink{link},
	})
	return c.store.SaveRequirements(reqs)
}

// findOrphans returns live tests linked to no requirement and absent from
// the ignored list, each exactly once, sorted by key.
func findOrphans(live []domain.TestRecord, reqs []domain.Requirement, ignored []domain.IgnoredTest) []domain.TestRecord {
	linked := make(map[string]bool)
	for _, req := range reqs {
		for _, link := range req.Tests {
			linked[link.Key()] = true
		}
	}
	for _, entry := range ignored {
		linked[entry.Key()] = true
	}

	var orphans []domain.TestRecord
	seen := make(map[string]bool)
	for _, rec := range live {
		key := rec.Key()
		if linked[key] || seen[key] {
			continue
		}
		seen[key] = true
		orphans = append(orphans, domain.TestRecord{File: rec.File, Identifier: rec.Identifier, Hash: rec.Hash})
	}
	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].Key() < orphans[j].Key()
	})
	return orphans
}

func buildMeta(report *domain.CheckReport, totalTests int) domain.CheckMeta {
	meta := domain.CheckMeta{
		TotalRequirements: len(report.Requirements),
		TotalTests:        totalTests,
		OrphanedTests:     len(report.Orphans),
		Timestamp:         time.Now().Format(time.RFC3339),
	}
	for _, status := range report.Requirements {
		switch status.Status {
		case domain.StatusVerified:
			meta.Verified++
		case domain.StatusUnverified:
			meta.Unverified++
		case domain.StatusNA:
			meta.NotApplicable++
		}
	}
	return meta
}
