package domain

import "strings"

// SegmentDelimiter separates the segments of an account's combination string.
const SegmentDelimiter = "-"

// LegalEntitySegment is the 1-based position of the legal-entity (balancing)
// segment within a combination string.
const LegalEntitySegment = 1

// CodeCombination is a concrete general-ledger account, identified within a
// ledger by its segment string (e.g. "01-000-21000-000-000").
type CodeCombination struct {
	CodeCombinationID string `json:"codeCombinationID"` // Primary Key (e.g., UUID)
	LedgerID          string `json:"ledgerID"`
	Segments          string `json:"segments"`
	AuditFields
}

// Segment returns the n-th (1-based) segment of the combination string, or ""
// when the combination has fewer segments.
func (c CodeCombination) Segment(n int) string {
	parts := strings.Split(c.Segments, SegmentDelimiter)
	if n < 1 || n > len(parts) {
		return ""
	}
	return parts[n-1]
}

// BalancingSegment returns the legal-entity segment used for intercompany
// balancing.
func (c CodeCombination) BalancingSegment() string {
	return c.Segment(LegalEntitySegment)
}

// ReplaceBalancingSegment returns the segment string with its legal-entity
// segment swapped for the given value. Used to scope well-known intercompany
// account templates to a particular legal entity.
func ReplaceBalancingSegment(segments, legalEntity string) string {
	parts := strings.Split(segments, SegmentDelimiter)
	if len(parts) < LegalEntitySegment {
		return segments
	}
	parts[LegalEntitySegment-1] = legalEntity
	return strings.Join(parts, SegmentDelimiter)
}

// IsSegmentString reports whether the value looks like a full segment string
// rather than a direct code combination reference.
func IsSegmentString(value string) bool {
	return strings.Contains(value, SegmentDelimiter)
}
