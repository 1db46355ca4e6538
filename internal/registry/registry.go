// Package registry holds the static catalog of canonical field definitions
// and field groups. The catalog is loaded once at construction and is
// immutable afterwards; lookups have no side effects and no failure modes
// beyond "not found".
package registry

import (
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
)

type modelAttr struct {
	model string
	field string
}

// Registry is the immutable field catalog.
type Registry struct {
	byFieldNo   map[id.FieldNo]FieldDefinition
	byModelAttr map[modelAttr]FieldDefinition
	byModel     map[string][]FieldDefinition
	groups      map[id.GroupID]FieldGroup
}

// New builds a Registry from definitions and groups, rejecting catalogs that
// violate the uniqueness invariants: one definition per field number, at
// most one definition per (model, field) pair, and groups may only
// reference known field numbers.
func New(defs []FieldDefinition, groups []FieldGroup) (*Registry, error) {
	r := &Registry{
		byFieldNo:   make(map[id.FieldNo]FieldDefinition, len(defs)),
		byModelAttr: make(map[modelAttr]FieldDefinition, len(defs)),
		byModel:     make(map[string][]FieldDefinition),
		groups:      make(map[id.GroupID]FieldGroup, len(groups)),
	}

	for _, def := range defs {
		if def.FieldNo <= 0 {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "field definition %q has non-positive field number %d", def.FieldName, def.FieldNo)
		}
		if def.Model == "" {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "field %d has no owning model", def.FieldNo)
		}
		if _, dup := r.byFieldNo[def.FieldNo]; dup {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "duplicate field number %d", def.FieldNo)
		}
		r.byFieldNo[def.FieldNo] = def
		r.byModel[def.Model] = append(r.byModel[def.Model], def)

		if def.HasAttribute() {
			key := modelAttr{model: def.Model, field: def.Field}
			if _, dup := r.byModelAttr[key]; dup {
				return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "duplicate definition for %s.%s", def.Model, def.Field)
			}
			r.byModelAttr[key] = def
		}
	}

	for _, group := range groups {
		if group.GroupID == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "group with empty id")
		}
		if _, dup := r.groups[group.GroupID]; dup {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "duplicate group %s", group.GroupID)
		}
		for _, fieldNo := range group.FieldNos {
			if _, ok := r.byFieldNo[fieldNo]; !ok {
				return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "group %s references unknown field %d", group.GroupID, fieldNo)
			}
		}
		r.groups[group.GroupID] = group
	}

	return r, nil
}

// Definition looks up a field definition by canonical field number.
func (r *Registry) Definition(fieldNo id.FieldNo) (FieldDefinition, bool) {
	def, ok := r.byFieldNo[fieldNo]
	return def, ok
}

// DefinitionFor looks up the definition backing a specific attribute on a
// specific model. This is the lookup the provenance validator uses; it must
// be model-scoped because attribute names are reused across models.
func (r *Registry) DefinitionFor(model, field string) (FieldDefinition, bool) {
	def, ok := r.byModelAttr[modelAttr{model: model, field: field}]
	return def, ok
}

// DefinitionsForModel returns every definition owned by a model. The result
// is a copy; callers may not mutate the catalog.
func (r *Registry) DefinitionsForModel(model string) []FieldDefinition {
	defs := r.byModel[model]
	out := make([]FieldDefinition, len(defs))
	copy(out, defs)
	return out
}

// Group looks up a field group by its id.
func (r *Registry) Group(groupID id.GroupID) (FieldGroup, bool) {
	group, ok := r.groups[groupID]
	return group, ok
}
