package service

import (
	"context"
	"time"

	"provenio/internal/masterdata/models"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
)

// historyLimit bounds how many events FieldDetail pulls for display.
const historyLimit = 50

// FieldDetail is the full audit view of one canonical field: its current
// state, the recent history, and candidate values seen but not current.
type FieldDetail struct {
	FieldNo    id.FieldNo               `json:"field_no"`
	Label      string                   `json:"label"`
	Current    *models.LoadedValue      `json:"current,omitempty"`
	History    []models.MasterDataEvent `json:"history"`
	Candidates []CandidateValue         `json:"candidates"`
}

// CandidateValue is a historical value distinct from the current one,
// available for review and re-promotion.
type CandidateValue struct {
	Value     string    `json:"value"`
	Source    id.Source `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// FieldDetail assembles the audit view for one field of an entity. An
// unlinked client ref yields a detail with no current value and no history.
func (r *Resolution) FieldDetail(ctx context.Context, ref EntityRef, fieldNo id.FieldNo) (*FieldDetail, error) {
	def, ok := r.registry.Definition(fieldNo)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown field number %d", fieldNo)
	}

	detail := &FieldDetail{
		FieldNo:    fieldNo,
		Label:      def.FieldName,
		History:    []models.MasterDataEvent{},
		Candidates: []CandidateValue{},
	}

	current, err := r.loader.LoadField(ctx, ref, fieldNo)
	if err != nil {
		return nil, err
	}
	detail.Current = current

	entityID, linked, err := resolveRef(ctx, r.loader.resolver, ref)
	if err != nil {
		return nil, err
	}
	if !linked {
		return detail, nil
	}

	events, err := r.history.History(ctx, entityID, fieldNo, historyLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load field history")
	}
	detail.History = events

	currentRepr := ""
	if current != nil {
		currentRepr = models.Stringify(current.Value)
	}
	seen := map[string]bool{currentRepr: true}
	for _, event := range events {
		if seen[event.Value] {
			continue
		}
		seen[event.Value] = true
		detail.Candidates = append(detail.Candidates, CandidateValue{
			Value:     event.Value,
			Source:    event.Source,
			Timestamp: event.Timestamp,
		})
	}
	return detail, nil
}
