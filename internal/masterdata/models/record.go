// Package models defines the canonical master data shapes: records with
// provenance meta, history events, and loaded field values.
package models

import (
	"provenio/internal/provenance"
	id "provenio/pkg/domain"
)

// Record is one canonical record instance: the attributes a model holds for
// a legal entity, plus the provenance Meta map covering them.
//
// Attrs is loosely typed on purpose: the catalog, not the struct, decides
// which attributes exist. The provenance validator guards coherence between
// Attrs and Meta on every write.
type Record struct {
	EntityID id.LegalEntityID
	Model    string
	Attrs    map[string]any
	Meta     provenance.Meta
}

// NewRecord returns an empty record for an entity and model.
func NewRecord(entityID id.LegalEntityID, model string) *Record {
	return &Record{
		EntityID: entityID,
		Model:    model,
		Attrs:    make(map[string]any),
		Meta:     provenance.Meta{},
	}
}

// Clone returns a copy whose Attrs and Meta can be mutated without touching
// the original. Write paths validate the clone and only then persist it, so
// a rejected write leaves no trace.
func (r *Record) Clone() *Record {
	attrs := make(map[string]any, len(r.Attrs))
	for k, v := range r.Attrs {
		attrs[k] = v
	}
	return &Record{
		EntityID: r.EntityID,
		Model:    r.Model,
		Attrs:    attrs,
		Meta:     r.Meta.Clone(),
	}
}
