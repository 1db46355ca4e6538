// Package service implements master data resolution and the canonical write
// paths. The Loader answers "what is the current value and provenance of
// this field"; the Writer applies manual overrides and external candidate
// values under the provenance invariant.
package service

import (
	"context"

	"provenio/internal/masterdata/models"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
)

// RecordStore persists canonical records keyed by (entity, model).
type RecordStore interface {
	// Get returns sentinel.ErrNotFound when no record exists yet.
	Get(ctx context.Context, entityID id.LegalEntityID, model string) (*models.Record, error)
	Put(ctx context.Context, rec *models.Record) error
}

// HistoryStore is the append-only per-field event log.
type HistoryStore interface {
	Append(ctx context.Context, event models.MasterDataEvent) error
	History(ctx context.Context, entityID id.LegalEntityID, fieldNo id.FieldNo, limit int) ([]models.MasterDataEvent, error)
}

// EntityResolver maps client-facing entity ids to canonical legal entities.
type EntityResolver interface {
	Resolve(ctx context.Context, clientID id.ClientEntityID) (id.LegalEntityID, bool, error)
}

// EntityRef names an entity on either side of the identity link. Master
// data access through a client ref silently yields "unset" until the link
// exists; a legal ref reads canonical data directly.
type EntityRef struct {
	Type     id.EntityType
	ClientID id.ClientEntityID
	LegalID  id.LegalEntityID
}

// LegalRef refers directly to a canonical legal entity.
func LegalRef(legalID id.LegalEntityID) EntityRef {
	return EntityRef{Type: id.EntityTypeLegal, LegalID: legalID}
}

// ClientRef refers to a client-facing entity that may not be linked yet.
func ClientRef(clientID id.ClientEntityID) EntityRef {
	return EntityRef{Type: id.EntityTypeClient, ClientID: clientID}
}

// resolveRef returns the canonical legal entity id behind a ref, with
// ok=false for the valid "no link yet" state.
func resolveRef(ctx context.Context, resolver EntityResolver, ref EntityRef) (id.LegalEntityID, bool, error) {
	if !ref.Type.RequiresIndirection() {
		if ref.LegalID.IsNil() {
			return id.LegalEntityID{}, false, dErrors.New(dErrors.CodeInvalidInput, "legal entity id is required")
		}
		return ref.LegalID, true, nil
	}
	return resolver.Resolve(ctx, ref.ClientID)
}
