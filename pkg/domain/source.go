package domain

import dErrors "provenio/pkg/domain-errors"

// Source identifies the origin of a canonical field value.
// Invariant: the value must be one of the supported provenance sources.
//
// Usage: construct via ParseSource at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Source string

// Supported provenance sources.
const (
	SourceGLEIF          Source = "GLEIF"
	SourceCompaniesHouse Source = "COMPANIES_HOUSE"
	SourceUserInput      Source = "USER_INPUT"
	SourceSystem         Source = "SYSTEM"
)

// validSources is the single source of truth for valid provenance sources.
var validSources = map[Source]bool{
	SourceGLEIF:          true,
	SourceCompaniesHouse: true,
	SourceUserInput:      true,
	SourceSystem:         true,
}

// ParseSource constructs a Source from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "source cannot be empty")
	}
	src := Source(s)
	if !src.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown source: %s", s)
	}
	return src, nil
}

// IsValid checks if the source is one of the supported enum values.
func (s Source) IsValid() bool {
	return validSources[s]
}

func (s Source) String() string { return string(s) }

// EntityType distinguishes whether an entity id refers directly to a
// canonical legal entity or to a client-facing entity that must be resolved
// through the identity link first.
type EntityType string

const (
	EntityTypeLegal  EntityType = "legal_entity"
	EntityTypeClient EntityType = "client_entity"
)

// RequiresIndirection reports whether master data access for this entity
// type must go through the entity resolver.
func (t EntityType) RequiresIndirection() bool {
	return t == EntityTypeClient
}
