package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"provenio/internal/masterdata/events"
	mdmetrics "provenio/internal/masterdata/metrics"
	"provenio/internal/masterdata/models"
	"provenio/internal/provenance"
	"provenio/internal/registry"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/sentinel"
	"provenio/pkg/requestcontext"
)

// Writer applies canonical writes: manual overrides and external candidate
// ingestion. Every write revalidates the whole record against the
// provenance invariant before anything is persisted; a rejected write
// leaves no attribute mutation and no history event.
type Writer struct {
	registry  *registry.Registry
	validator *provenance.Validator
	records   RecordStore
	history   HistoryStore
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *mdmetrics.Metrics
}

// WriterOption configures optional Writer dependencies.
type WriterOption func(*Writer)

// WithWriterLogger injects a logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) { w.logger = logger }
}

// WithWriterMetrics injects metrics.
func WithWriterMetrics(m *mdmetrics.Metrics) WriterOption {
	return func(w *Writer) { w.metrics = m }
}

// WithPublisher injects the event stream publisher.
func WithPublisher(p events.Publisher) WriterOption {
	return func(w *Writer) { w.publisher = p }
}

// NewWriter constructs a Writer.
func NewWriter(reg *registry.Registry, validator *provenance.Validator, records RecordStore, history HistoryStore, opts ...WriterOption) *Writer {
	w := &Writer{
		registry:  reg,
		validator: validator,
		records:   records,
		history:   history,
		publisher: events.Noop{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Override describes a manual override request.
type Override struct {
	EntityID id.LegalEntityID
	FieldNo  id.FieldNo
	NewValue any
	Note     string
	ActorID  id.ActorID
	// IfUnmodifiedSince, when set, turns the last-write-wins race into a
	// detectable conflict: the write is rejected if the field's current
	// provenance timestamp is later than this instant.
	IfUnmodifiedSince *time.Time
}

// Candidate describes an external candidate value (registry sync, document
// extraction) proposed for promotion to the canonical record.
type Candidate struct {
	EntityID   id.LegalEntityID
	FieldNo    id.FieldNo
	Value      any
	Source     id.Source
	Confidence *float64
	EvidenceID string
}

// ApplyManualOverride writes a user-entered value into the canonical record
// with fresh USER_INPUT provenance. It never propagates to linked
// questionnaire answers; sync remains an explicit pull.
func (w *Writer) ApplyManualOverride(ctx context.Context, override Override) (*models.MasterDataEvent, error) {
	entry := provenance.MetaEntry{
		Source:     id.SourceUserInput,
		Timestamp:  requestcontext.Now(ctx),
		VerifiedBy: actorRef(override.ActorID),
	}
	event, err := w.applyWrite(ctx, override.EntityID, override.FieldNo, override.NewValue, entry, override.Note, override.IfUnmodifiedSince)
	if err != nil {
		return nil, err
	}
	if w.metrics != nil {
		w.metrics.IncrementManualOverrides()
	}
	return event, nil
}

// IngestCandidate writes an externally sourced value into the canonical
// record. The same provenance invariant applies; USER_INPUT is reserved for
// manual overrides.
func (w *Writer) IngestCandidate(ctx context.Context, candidate Candidate) (*models.MasterDataEvent, error) {
	if !candidate.Source.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown source %q", candidate.Source)
	}
	if candidate.Source == id.SourceUserInput {
		return nil, dErrors.New(dErrors.CodeBadRequest, "manual values must go through the override path")
	}
	entry := provenance.MetaEntry{
		Source:     candidate.Source,
		Timestamp:  requestcontext.Now(ctx),
		Confidence: candidate.Confidence,
		EvidenceID: candidate.EvidenceID,
	}
	event, err := w.applyWrite(ctx, candidate.EntityID, candidate.FieldNo, candidate.Value, entry, "", nil)
	if err != nil {
		return nil, err
	}
	if w.metrics != nil {
		w.metrics.IncrementCandidateIngests(candidate.Source.String())
	}
	return event, nil
}

// applyWrite is the single canonical write path: resolve the definition,
// mutate a clone, validate, persist, append history, publish.
func (w *Writer) applyWrite(ctx context.Context, entityID id.LegalEntityID, fieldNo id.FieldNo, value any, entry provenance.MetaEntry, note string, ifUnmodifiedSince *time.Time) (*models.MasterDataEvent, error) {
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "legal entity id is required")
	}

	def, ok := w.registry.Definition(fieldNo)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown field number %d", fieldNo)
	}
	if !def.HasAttribute() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "field %d has no direct attribute and cannot be written", fieldNo)
	}

	rec, err := w.records.Get(ctx, entityID, def.Model)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load canonical record")
		}
		rec = models.NewRecord(entityID, def.Model)
	}

	if ifUnmodifiedSince != nil {
		if current, exists := rec.Meta[def.Field]; exists && current.Timestamp.After(*ifUnmodifiedSince) {
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"field %d was modified at %s, after the expected %s",
				fieldNo, current.Timestamp.Format(time.RFC3339Nano), ifUnmodifiedSince.Format(time.RFC3339Nano))
		}
	}

	entry.FieldNo = def.FieldNo

	next := rec.Clone()
	next.Attrs[def.Field] = value
	next.Meta[def.Field] = entry

	if errs := w.validator.ValidateMeta(next.Meta, next.Attrs, next.Model); len(errs) > 0 {
		w.logger.WarnContext(ctx, "canonical write rejected by provenance validation",
			"entity_id", entityID,
			"field_no", fieldNo,
			"violations", len(errs),
		)
		return nil, dErrors.Newf(dErrors.CodeValidation, "provenance validation failed: %s", errs[0].Error())
	}

	if err := w.records.Put(ctx, next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist canonical record")
	}

	event := models.MasterDataEvent{
		ID:        id.EventID(uuid.New()),
		EntityID:  entityID,
		FieldNo:   def.FieldNo,
		Value:     models.Stringify(value),
		Source:    entry.Source,
		Timestamp: entry.Timestamp,
		Note:      note,
	}
	if err := w.history.Append(ctx, event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "append history event")
	}

	if err := w.publisher.Publish(ctx, event); err != nil {
		// The history store is the system of record; a stream failure must
		// not fail the write.
		w.logger.ErrorContext(ctx, "master data event publish failed",
			"entity_id", entityID,
			"field_no", fieldNo,
			"error", err,
		)
	}

	return &event, nil
}

func actorRef(actorID id.ActorID) string {
	if actorID.IsNil() {
		return ""
	}
	return actorID.String()
}
