package provenance

import (
	"fmt"

	"provenio/internal/registry"
	id "provenio/pkg/domain"
)

// MetaField is the synthetic attribute name used for errors about the Meta
// map itself rather than any specific attribute.
const MetaField = "_meta"

// ValidationError describes one provenance invariant violation on a record.
type ValidationError struct {
	Field           string     `json:"field"`
	Message         string     `json:"message"`
	ExpectedFieldNo id.FieldNo `json:"expected_field_no,omitempty"`
	ActualFieldNo   id.FieldNo `json:"actual_field_no,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator checks records against the provenance invariant using the field
// registry. It is stateless; one instance serves all models.
type Validator struct {
	registry *registry.Registry
}

// NewValidator constructs a Validator over the given catalog.
func NewValidator(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// ValidateMeta checks that meta covers every populated, field-mapped
// attribute of data for the given model. An empty result means the record is
// fully compliant; callers must reject the write otherwise.
//
// The check is model-scoped: the definition is looked up for the specific
// model being validated, never by attribute name alone.
func (v *Validator) ValidateMeta(meta Meta, data map[string]any, model string) []ValidationError {
	// Shape first: a malformed Meta map yields a single synthetic error
	// rather than one error per attribute it fails to cover.
	for attr, entry := range meta {
		if problem := entry.structuralProblem(); problem != "" {
			return []ValidationError{{
				Field:   MetaField,
				Message: fmt.Sprintf("meta entry for %q is malformed: %s", attr, problem),
			}}
		}
	}

	var errs []ValidationError
	for _, def := range v.registry.DefinitionsForModel(model) {
		if !def.HasAttribute() {
			continue
		}
		value, present := data[def.Field]
		if !present || value == nil {
			continue
		}

		entry, ok := meta[def.Field]
		if !ok {
			errs = append(errs, ValidationError{
				Field:           def.Field,
				Message:         fmt.Sprintf("populated attribute %q has no meta entry (expected field_no %d)", def.Field, def.FieldNo),
				ExpectedFieldNo: def.FieldNo,
			})
			continue
		}
		if entry.FieldNo != def.FieldNo {
			errs = append(errs, ValidationError{
				Field:           def.Field,
				Message:         fmt.Sprintf("meta entry for %q carries field_no %d, definition requires %d", def.Field, entry.FieldNo, def.FieldNo),
				ExpectedFieldNo: def.FieldNo,
				ActualFieldNo:   entry.FieldNo,
			})
		}
	}
	return errs
}
