package models

import (
	"encoding/json"
	"fmt"
	"time"

	id "provenio/pkg/domain"
)

// LoadedValue is the resolved current state of one canonical field: the
// value and the provenance it carries.
type LoadedValue struct {
	Value      any       `json:"value"`
	Source     id.Source `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// GroupValues maps field numbers to their loaded values for one field group.
// Unpopulated fields are absent.
type GroupValues map[id.FieldNo]LoadedValue

// Stringify renders a scalar master value as the string used for history
// rows, questionnaire answers, and sync comparison. Strings pass through
// unchanged; nil renders as the empty string; everything else is JSON.
//
// Sync classification depends on this being deterministic; do not add
// normalization here.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// SyncStatus classifies a questionnaire answer relative to its mapped
// master field.
type SyncStatus string

const (
	SyncPending  SyncStatus = "PENDING"
	SyncSynced   SyncStatus = "SYNCED"
	SyncConflict SyncStatus = "CONFLICT"
)

// ComputeSyncStatus is a pure function of (answer, master representation).
// An empty or absent answer is PENDING even when the master value is itself
// empty; otherwise comparison is exact string equality, with no whitespace,
// case, or formatting normalization.
func ComputeSyncStatus(answer *string, master string) SyncStatus {
	if answer == nil || *answer == "" {
		return SyncPending
	}
	if *answer != master {
		return SyncConflict
	}
	return SyncSynced
}
