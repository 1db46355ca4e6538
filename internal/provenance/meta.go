// Package provenance defines the per-attribute provenance metadata attached
// to canonical records and the validator enforcing the provenance invariant:
// every populated, field-mapped attribute carries a Meta entry whose field
// number matches the registry definition for that model.
package provenance

import (
	"time"

	id "provenio/pkg/domain"
)

// MetaEntry is the provenance unit for one populated attribute.
type MetaEntry struct {
	FieldNo    id.FieldNo `json:"field_no"`
	Source     id.Source  `json:"source"`
	Timestamp  time.Time  `json:"timestamp"`
	EvidenceID string     `json:"evidence_id,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	VerifiedBy string     `json:"verified_by,omitempty"`
}

// Meta maps attribute names to their provenance entries. It is stored
// alongside each canonical record.
type Meta map[string]MetaEntry

// structuralProblem reports why an entry fails the Meta shape, or "" when it
// is well formed. Shape failures are distinct from invariant failures: they
// mean the map itself is malformed, not that an attribute lacks coverage.
func (e MetaEntry) structuralProblem() string {
	if e.FieldNo <= 0 {
		return "field_no must be positive"
	}
	if !e.Source.IsValid() {
		return "unknown source"
	}
	if e.Timestamp.IsZero() {
		return "timestamp is required"
	}
	if e.Confidence != nil && (*e.Confidence < 0 || *e.Confidence > 1) {
		return "confidence must be within [0, 1]"
	}
	return ""
}

// Clone returns a shallow copy safe for copy-validate-commit write paths.
func (m Meta) Clone() Meta {
	if m == nil {
		return Meta{}
	}
	out := make(Meta, len(m))
	for attr, entry := range m {
		out[attr] = entry
	}
	return out
}
