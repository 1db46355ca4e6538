package link

import (
	"context"

	id "provenio/pkg/domain"
)

// LinkStore persists the client-entity to legal-entity link. The resolver in
// internal/entity declares its own consumer-side copy of this contract; the
// cached store below decorates any implementation of it.
type LinkStore interface {
	// FindLink returns the legal entity linked to a client entity, or
	// sentinel.ErrNotFound when no link exists.
	FindLink(ctx context.Context, clientID id.ClientEntityID) (id.LegalEntityID, error)
	// SaveLink records a 1:1 link. Re-linking overwrites the previous link.
	SaveLink(ctx context.Context, clientID id.ClientEntityID, legalID id.LegalEntityID) error
}

var (
	_ LinkStore = (*InMemoryStore)(nil)
	_ LinkStore = (*PostgresStore)(nil)
	_ LinkStore = (*CachedStore)(nil)
)
