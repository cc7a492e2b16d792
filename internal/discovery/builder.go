package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"reqtrace/internal/domain"
)

// Fingerprint returns the 64-character hex sha256 digest of the exact body
// bytes. Identical bodies always hash identically; that is the whole basis of
// change detection, so the digest length and algorithm never vary.
func Fingerprint(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Builder turns raw matches into fingerprinted records and applies
// cross-matcher deduplication through one shared seen-set keyed by
// (file, identifier). The first successful claim of a key wins; later matches
// for the same key are discarded even when they come from a different
// matcher. A malformed match does not claim its key, so a later parseable
// declaration with the same name still gets through.
type Builder struct {
	seen map[string]bool
}

// NewBuilder creates a Builder with an empty seen-set. Use one per extraction
// pass; the seen-set is the pass-wide uniqueness guarantee.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

// Build extracts and fingerprints the body for one match. The bool is false
// for discarded duplicates; the error is non-nil only for malformed bodies.
func (b *Builder) Build(file, text string, m domain.Match) (domain.TestRecord, bool, error) {
	key := domain.TestKey(file, m.Identifier)
	if b.seen[key] {
		return domain.TestRecord{}, false, nil
	}
	body, err := ExtractBody(text, m.BodyStart)
	if err != nil {
		return domain.TestRecord{}, false, err
	}
	b.seen[key] = true
	return domain.TestRecord{
		File:       file,
		Identifier: m.Identifier,
		Body:       body,
		Hash:       Fingerprint(body),
	}, true, nil
}

// ExtractTests runs every matcher in priority order over one file's text and
// returns its records plus the count of malformed matches that were skipped.
func ExtractTests(file, text string) ([]domain.TestRecord, int) {
	builder := NewBuilder()
	var records []domain.TestRecord
	malformed := 0
	for _, matcher := range Matchers() {
		for _, match := range matcher.FindMatches(text) {
			rec, ok, err := builder.Build(file, text, match)
			if err != nil {
				malformed++
				continue
			}
			if ok {
				records = append(records, rec)
			}
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Identifier < records[j].Identifier
	})
	return records, malformed
}
