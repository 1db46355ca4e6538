package models

import (
	"time"

	id "provenio/pkg/domain"
)

// MasterDataEvent is one append-only history row: a value written to a
// canonical field. Events are never mutated or deleted; they are the audit
// trail and the basis for candidate review of superseded values.
type MasterDataEvent struct {
	ID        id.EventID       `json:"id"`
	EntityID  id.LegalEntityID `json:"entity_id"`
	FieldNo   id.FieldNo       `json:"field_no"`
	Value     string           `json:"value"`
	Source    id.Source        `json:"source"`
	Timestamp time.Time        `json:"timestamp"`
	Note      string           `json:"note,omitempty"`
}
