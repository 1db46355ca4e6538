// Package entity resolves client-facing entity ids to the canonical legal
// entity that owns master data. The link itself is maintained by the
// external identity subsystem; this package only reads it.
package entity

import (
	"context"
	"errors"
	"log/slog"

	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/sentinel"
)

// LinkStore persists the client-entity to legal-entity link.
type LinkStore interface {
	// FindLink returns the canonical legal entity linked to a client
	// entity, or sentinel.ErrNotFound when no link exists.
	FindLink(ctx context.Context, clientID id.ClientEntityID) (id.LegalEntityID, error)
	// SaveLink records a 1:1 link. Re-linking a client entity overwrites
	// the previous link.
	SaveLink(ctx context.Context, clientID id.ClientEntityID, legalID id.LegalEntityID) error
}

// Resolver maps client-facing entity ids to canonical legal entity ids.
// An unlinked client entity is a valid state, not an error: it simply has no
// resolvable master data yet.
type Resolver struct {
	links  LinkStore
	logger *slog.Logger
}

// NewResolver constructs a Resolver over the given link store.
func NewResolver(links LinkStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{links: links, logger: logger}
}

// Resolve returns the canonical legal entity id for a client entity.
// ok is false when the link does not exist yet.
func (r *Resolver) Resolve(ctx context.Context, clientID id.ClientEntityID) (id.LegalEntityID, bool, error) {
	if clientID.IsNil() {
		return id.LegalEntityID{}, false, dErrors.New(dErrors.CodeInvalidInput, "client entity id is required")
	}

	legalID, err := r.links.FindLink(ctx, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.LegalEntityID{}, false, nil
		}
		return id.LegalEntityID{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "resolve entity link")
	}
	return legalID, true, nil
}
