package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provenio/internal/masterdata/models"
	"provenio/internal/masterdata/store/history"
	"provenio/internal/masterdata/store/record"
	"provenio/internal/provenance"
	"provenio/internal/registry"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/sentinel"
	"provenio/pkg/requestcontext"
)

type writerFixture struct {
	registry *registry.Registry
	records  *record.InMemoryStore
	history  *history.InMemoryStore
	writer   *Writer
}

func newWriterFixture(t *testing.T) *writerFixture {
	t.Helper()
	reg, err := registry.New([]registry.FieldDefinition{
		{FieldNo: 3, Model: "LegalEntity", Field: "legalName", FieldName: "Legal Name"},
		{FieldNo: 5, Model: "LegalEntity", Field: "registrationNumber", FieldName: "Registration Number"},
		{FieldNo: 21, Model: "LegalEntity", FieldName: "Industry Classification"},
	}, nil)
	require.NoError(t, err)

	records := record.NewMemory()
	hist := history.NewMemory()
	return &writerFixture{
		registry: reg,
		records:  records,
		history:  hist,
		writer:   NewWriter(reg, provenance.NewValidator(reg), records, hist),
	}
}

func TestApplyManualOverride(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("writes value with USER_INPUT provenance and history", func(t *testing.T) {
		f := newWriterFixture(t)
		entityID := id.LegalEntityID(uuid.New())
		actorID := id.ActorID(uuid.New())

		event, err := f.writer.ApplyManualOverride(ctx, Override{
			EntityID: entityID,
			FieldNo:  3,
			NewValue: "Acme Ltd",
			Note:     "corrected spelling",
			ActorID:  actorID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", event.Value)
		assert.Equal(t, id.SourceUserInput, event.Source)
		assert.Equal(t, now, event.Timestamp)
		assert.Equal(t, "corrected spelling", event.Note)

		rec, err := f.records.Get(ctx, entityID, "LegalEntity")
		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", rec.Attrs["legalName"])
		assert.Equal(t, id.FieldNo(3), rec.Meta["legalName"].FieldNo)
		assert.Equal(t, actorID.String(), rec.Meta["legalName"].VerifiedBy)

		events, err := f.history.History(ctx, entityID, 3, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Acme Ltd", events[0].Value)
	})

	t.Run("unknown field is not found", func(t *testing.T) {
		f := newWriterFixture(t)
		_, err := f.writer.ApplyManualOverride(ctx, Override{
			EntityID: id.LegalEntityID(uuid.New()),
			FieldNo:  404,
			NewValue: "x",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("attribute-less field cannot be written", func(t *testing.T) {
		f := newWriterFixture(t)
		_, err := f.writer.ApplyManualOverride(ctx, Override{
			EntityID: id.LegalEntityID(uuid.New()),
			FieldNo:  21,
			NewValue: "x",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejected write leaves no trace", func(t *testing.T) {
		f := newWriterFixture(t)
		entityID := id.LegalEntityID(uuid.New())

		// Seed a record that already violates the invariant on another
		// attribute, so revalidation of the whole record fails.
		rec := models.NewRecord(entityID, "LegalEntity")
		rec.Attrs["registrationNumber"] = "01234567" // deliberately missing meta
		require.NoError(t, f.records.Put(ctx, rec))

		_, err := f.writer.ApplyManualOverride(ctx, Override{
			EntityID: entityID,
			FieldNo:  3,
			NewValue: "Acme Ltd",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		// No attribute mutation.
		after, err := f.records.Get(ctx, entityID, "LegalEntity")
		require.NoError(t, err)
		_, written := after.Attrs["legalName"]
		assert.False(t, written)

		// No history event.
		events, err := f.history.History(ctx, entityID, 3, 0)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("stale precondition is a conflict", func(t *testing.T) {
		f := newWriterFixture(t)
		entityID := id.LegalEntityID(uuid.New())

		_, err := f.writer.ApplyManualOverride(ctx, Override{
			EntityID: entityID,
			FieldNo:  3,
			NewValue: "Acme Ltd",
		})
		require.NoError(t, err)

		stale := now.Add(-time.Hour)
		_, err = f.writer.ApplyManualOverride(ctx, Override{
			EntityID:          entityID,
			FieldNo:           3,
			NewValue:          "Acme Limited",
			IfUnmodifiedSince: &stale,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

		rec, err := f.records.Get(ctx, entityID, "LegalEntity")
		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", rec.Attrs["legalName"])
	})

	t.Run("matching precondition passes", func(t *testing.T) {
		f := newWriterFixture(t)
		entityID := id.LegalEntityID(uuid.New())

		_, err := f.writer.ApplyManualOverride(ctx, Override{
			EntityID: entityID,
			FieldNo:  3,
			NewValue: "Acme Ltd",
		})
		require.NoError(t, err)

		_, err = f.writer.ApplyManualOverride(ctx, Override{
			EntityID:          entityID,
			FieldNo:           3,
			NewValue:          "Acme Limited",
			IfUnmodifiedSince: &now,
		})
		require.NoError(t, err)
	})
}

func TestIngestCandidate(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("external value lands with its source and confidence", func(t *testing.T) {
		f := newWriterFixture(t)
		entityID := id.LegalEntityID(uuid.New())
		conf := 0.92

		event, err := f.writer.IngestCandidate(ctx, Candidate{
			EntityID:   entityID,
			FieldNo:    3,
			Value:      "ACME LIMITED",
			Source:     id.SourceCompaniesHouse,
			Confidence: &conf,
			EvidenceID: "filing-2026-001",
		})
		require.NoError(t, err)
		assert.Equal(t, id.SourceCompaniesHouse, event.Source)

		rec, err := f.records.Get(ctx, entityID, "LegalEntity")
		require.NoError(t, err)
		entry := rec.Meta["legalName"]
		assert.Equal(t, id.SourceCompaniesHouse, entry.Source)
		assert.Equal(t, "filing-2026-001", entry.EvidenceID)
		require.NotNil(t, entry.Confidence)
		assert.InDelta(t, 0.92, *entry.Confidence, 1e-9)
	})

	t.Run("USER_INPUT source is rejected", func(t *testing.T) {
		f := newWriterFixture(t)
		_, err := f.writer.IngestCandidate(ctx, Candidate{
			EntityID: id.LegalEntityID(uuid.New()),
			FieldNo:  3,
			Value:    "x",
			Source:   id.SourceUserInput,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("invalid source is rejected", func(t *testing.T) {
		f := newWriterFixture(t)
		_, err := f.writer.IngestCandidate(ctx, Candidate{
			EntityID: id.LegalEntityID(uuid.New()),
			FieldNo:  3,
			Value:    "x",
			Source:   "EXCEL",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

type failingHistory struct{}

func (failingHistory) Append(context.Context, models.MasterDataEvent) error {
	return errors.New("disk full")
}

func (failingHistory) History(context.Context, id.LegalEntityID, id.FieldNo, int) ([]models.MasterDataEvent, error) {
	return nil, sentinel.ErrUnavailable
}

func TestApplyManualOverride_HistoryFailure(t *testing.T) {
	reg, err := registry.New([]registry.FieldDefinition{
		{FieldNo: 3, Model: "LegalEntity", Field: "legalName", FieldName: "Legal Name"},
	}, nil)
	require.NoError(t, err)

	w := NewWriter(reg, provenance.NewValidator(reg), record.NewMemory(), failingHistory{})
	_, err = w.ApplyManualOverride(context.Background(), Override{
		EntityID: id.LegalEntityID(uuid.New()),
		FieldNo:  3,
		NewValue: "Acme Ltd",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
