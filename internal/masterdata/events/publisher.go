// Package events streams master data history events to downstream
// consumers (audit sinks, search indexers). Publishing is best-effort from
// the writer's perspective: the history store, not the stream, is the
// system of record.
package events

import (
	"context"

	"provenio/internal/masterdata/models"
)

// Publisher fans a master data event out to external consumers.
type Publisher interface {
	Publish(ctx context.Context, event models.MasterDataEvent) error
}

// Noop discards events; used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, models.MasterDataEvent) error { return nil }
