package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"provenio/internal/masterdata/models"
	"provenio/internal/questionnaire"
	"provenio/internal/registry"
	id "provenio/pkg/domain"
)

// Resolution exposes the bulk read operations consumed by UI and API
// callers: per-question master value resolution and per-field detail with
// audit history.
type Resolution struct {
	registry *registry.Registry
	loader   *Loader
	history  HistoryStore
}

// NewResolution constructs a Resolution facade.
func NewResolution(reg *registry.Registry, loader *Loader, history HistoryStore) *Resolution {
	return &Resolution{registry: reg, loader: loader, history: history}
}

// ResolvedValue is one master value resolved for a question mapping.
type ResolvedValue struct {
	Value    any       `json:"value"`
	Source   id.Source `json:"source"`
	IsSynced bool      `json:"is_synced"`
}

// ResolveMasterData resolves current master values for a set of questions,
// keyed by question id and field number. Questions without a resolvable
// mapping contribute nothing.
func (r *Resolution) ResolveMasterData(ctx context.Context, ref EntityRef, questions []questionnaire.Question) (map[id.QuestionID]map[id.FieldNo]ResolvedValue, error) {
	out := make(map[id.QuestionID]map[id.FieldNo]ResolvedValue, len(questions))

	for _, q := range questions {
		switch {
		case q.MasterFieldNo != nil:
			loaded, err := r.loader.LoadField(ctx, ref, *q.MasterFieldNo)
			if err != nil {
				return nil, err
			}
			if loaded == nil {
				continue
			}
			synced := models.ComputeSyncStatus(q.Answer, models.Stringify(loaded.Value)) == models.SyncSynced
			out[q.ID] = map[id.FieldNo]ResolvedValue{
				*q.MasterFieldNo: {Value: loaded.Value, Source: loaded.Source, IsSynced: synced},
			}

		case q.MasterGroupID != nil:
			group, ok := r.registry.Group(*q.MasterGroupID)
			if !ok {
				continue
			}
			values, err := r.loader.LoadGroup(ctx, ref, group.GroupID)
			if err != nil {
				return nil, err
			}
			if len(values) == 0 {
				continue
			}
			synced := models.ComputeSyncStatus(q.Answer, GroupRepresentation(group, values)) == models.SyncSynced
			entry := make(map[id.FieldNo]ResolvedValue, len(values))
			for fieldNo, value := range values {
				entry[fieldNo] = ResolvedValue{Value: value.Value, Source: value.Source, IsSynced: synced}
			}
			out[q.ID] = entry
		}
	}
	return out, nil
}

// GroupRepresentation renders a group's populated values as the canonical
// string used for answer comparison and propagation: a JSON object keyed by
// field number, in group declaration order. Ordering matters: sync
// classification is exact string comparison.
func GroupRepresentation(group registry.FieldGroup, values models.GroupValues) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, fieldNo := range group.FieldNos {
		value, ok := values[fieldNo]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(strconv.Itoa(int(fieldNo)))
		buf.Write(key)
		buf.WriteByte(':')
		raw, err := json.Marshal(value.Value)
		if err != nil {
			raw, _ = json.Marshal(models.Stringify(value.Value))
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.String()
}
