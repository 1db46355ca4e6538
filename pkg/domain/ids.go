// Package domain holds shared domain primitives: typed identifiers and
// enumerations used across features. Construct values via the Parse*
// functions at trust boundaries; direct casting bypasses validation.
package domain

import (
	"strconv"

	"github.com/google/uuid"

	dErrors "provenio/pkg/domain-errors"
)

// LegalEntityID identifies the canonical legal entity that owns master data.
type LegalEntityID uuid.UUID

// ClientEntityID identifies a client-facing entity. It may or may not be
// linked to a LegalEntityID; until linked it has no resolvable master data.
type ClientEntityID uuid.UUID

// QuestionID identifies a questionnaire question (owned by the external
// questionnaire subsystem).
type QuestionID uuid.UUID

// ActorID identifies the user or system actor performing an operation.
type ActorID uuid.UUID

// EventID identifies a master data history event.
type EventID uuid.UUID

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}

// ParseLegalEntityID validates and returns a LegalEntityID.
func ParseLegalEntityID(s string) (LegalEntityID, error) {
	u, err := parseUUID(s, "legal entity id")
	return LegalEntityID(u), err
}

// ParseClientEntityID validates and returns a ClientEntityID.
func ParseClientEntityID(s string) (ClientEntityID, error) {
	u, err := parseUUID(s, "client entity id")
	return ClientEntityID(u), err
}

// ParseQuestionID validates and returns a QuestionID.
func ParseQuestionID(s string) (QuestionID, error) {
	u, err := parseUUID(s, "question id")
	return QuestionID(u), err
}

// ParseActorID validates and returns an ActorID.
func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID(s, "actor id")
	return ActorID(u), err
}

func (id LegalEntityID) String() string  { return uuid.UUID(id).String() }
func (id ClientEntityID) String() string { return uuid.UUID(id).String() }
func (id QuestionID) String() string     { return uuid.UUID(id).String() }
func (id ActorID) String() string        { return uuid.UUID(id).String() }
func (id EventID) String() string        { return uuid.UUID(id).String() }

func (id LegalEntityID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ClientEntityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// Text marshalling renders the ids as canonical UUID strings in JSON bodies
// and as JSON object keys.

func (id LegalEntityID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ClientEntityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id QuestionID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ActorID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }

func (id *LegalEntityID) UnmarshalText(b []byte) error {
	parsed, err := ParseLegalEntityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ClientEntityID) UnmarshalText(b []byte) error {
	parsed, err := ParseClientEntityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *QuestionID) UnmarshalText(b []byte) error {
	parsed, err := ParseQuestionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ActorID) UnmarshalText(b []byte) error {
	parsed, err := ParseActorID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EventID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "event id")
	if err != nil {
		return err
	}
	*id = EventID(u)
	return nil
}

// FieldNo is the globally unique canonical identifier for one compliance
// fact, independent of which record type stores it.
type FieldNo int

// ParseFieldNo validates and returns a FieldNo. Field numbers are strictly
// positive.
func ParseFieldNo(n int) (FieldNo, error) {
	if n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "field number must be positive")
	}
	return FieldNo(n), nil
}

// ParseFieldNoString parses a decimal field number, as found in question
// mapping keys.
func ParseFieldNoString(s string) (FieldNo, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "field number must be a decimal integer")
	}
	return ParseFieldNo(n)
}

func (n FieldNo) String() string { return strconv.Itoa(int(n)) }

// GroupID is the registry key of a field group (e.g. "registered_address").
type GroupID string

// ParseGroupID validates and returns a GroupID.
func ParseGroupID(s string) (GroupID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "group id cannot be empty")
	}
	return GroupID(s), nil
}

func (g GroupID) String() string { return string(g) }
