package registry

import (
	id "provenio/pkg/domain"
)

// FieldDefinition is an immutable catalog entry mapping a canonical field
// number to the record type and attribute that stores it.
//
// FieldNo is the single source of truth for "what canonical fact is this";
// the same attribute name can map to different field numbers on different
// models, so lookups must always be model-scoped.
type FieldDefinition struct {
	FieldNo   id.FieldNo
	Model     string
	Field     string // attribute name within Model; empty when the field number has no direct attribute
	FieldName string // human label
	Notes     string
}

// HasAttribute reports whether the definition is backed by a concrete
// attribute on its model.
func (d FieldDefinition) HasAttribute() bool {
	return d.Field != ""
}

// FieldGroup bundles an ordered list of field numbers into one composite
// concept, e.g. a registered address. A question maps to a group or to a
// single field definition, never both.
type FieldGroup struct {
	GroupID  id.GroupID
	Label    string
	FieldNos []id.FieldNo
}
