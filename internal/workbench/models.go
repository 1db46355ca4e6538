// Package workbench builds the cross-reference view joining canonical field
// values to the questionnaire answers that duplicate them. The view is
// computed per request and never persisted: either side can change
// independently between invocations.
package workbench

import (
	"strconv"
	"time"

	"provenio/internal/masterdata/models"
	id "provenio/pkg/domain"
)

// FieldType classifies a workbench entry.
type FieldType string

const (
	FieldTypeSingle       FieldType = "SINGLE"
	FieldTypeGroup        FieldType = "GROUP"
	FieldTypeUnmapped     FieldType = "UNMAPPED"
	FieldTypeUnresolvable FieldType = "UNRESOLVABLE"
)

// FieldRef identifies what a question's mapping resolved to. It is a closed
// union: exactly SingleRef, GroupRef, UnmappedRef, and UnresolvableRef
// implement it.
type FieldRef interface {
	// Key is the aggregation key: the field number in decimal for singles,
	// the group id for groups, and reserved buckets otherwise.
	Key() string
	Type() FieldType
	sealed()
}

// SingleRef maps a question to one registry field.
type SingleRef struct {
	FieldNo id.FieldNo
}

func (r SingleRef) Key() string     { return strconv.Itoa(int(r.FieldNo)) }
func (r SingleRef) Type() FieldType { return FieldTypeSingle }
func (SingleRef) sealed()           {}

// GroupRef maps a question to a registry field group.
type GroupRef struct {
	GroupID id.GroupID
}

func (r GroupRef) Key() string     { return string(r.GroupID) }
func (r GroupRef) Type() FieldType { return FieldTypeGroup }
func (GroupRef) sealed()           {}

// UnmappedRef buckets questions that reference no canonical field at all.
type UnmappedRef struct{}

// UnmappedKey is the reserved aggregation key for unmapped questions.
const UnmappedKey = "UNMAPPED"

func (UnmappedRef) Key() string     { return UnmappedKey }
func (UnmappedRef) Type() FieldType { return FieldTypeUnmapped }
func (UnmappedRef) sealed()         {}

// UnresolvableRef holds a mapping whose field number or group id is unknown
// to the registry. These are surfaced rather than dropped so broken mappings
// stay visible to operators.
type UnresolvableRef struct {
	Raw string
}

func (r UnresolvableRef) Key() string   { return r.Raw }
func (UnresolvableRef) Type() FieldType { return FieldTypeUnresolvable }
func (UnresolvableRef) sealed()         {}

// LinkedQuestion is one questionnaire answer attached to a workbench field,
// with its sync status relative to the master representation.
type LinkedQuestion struct {
	QuestionID id.QuestionID     `json:"question_id"`
	Text       string            `json:"text"`
	Answer     *string           `json:"answer,omitempty"`
	Status     models.SyncStatus `json:"status"`
}

// Field is one row of the workbench view.
type Field struct {
	Type          FieldType        `json:"type"`
	Key           string           `json:"key"`
	Label         string           `json:"label"`
	CurrentValue  string           `json:"current_value,omitempty"`
	CurrentSource id.Source        `json:"current_source,omitempty"`
	LastUpdated   *time.Time       `json:"last_updated,omitempty"`
	Questions     []LinkedQuestion `json:"questions"`
}
