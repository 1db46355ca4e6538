package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"provenio/internal/masterdata/models"
	"provenio/internal/provenance"
	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
	"provenio/pkg/requestcontext"
)

// PostgresStore persists canonical records in PostgreSQL, one row per
// (entity, model) with attributes and meta as JSONB.
//
// Schema:
//
//	CREATE TABLE master_records (
//	    entity_id  UUID NOT NULL,
//	    model      TEXT NOT NULL,
//	    attrs      JSONB NOT NULL DEFAULT '{}',
//	    meta       JSONB NOT NULL DEFAULT '{}',
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (entity_id, model)
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, entityID id.LegalEntityID, model string) (*models.Record, error) {
	var attrsRaw, metaRaw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT attrs, meta FROM master_records WHERE entity_id = $1 AND model = $2`,
		uuid.UUID(entityID), model,
	).Scan(&attrsRaw, &metaRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get master record: %w", err)
	}

	rec := models.NewRecord(entityID, model)
	if err := json.Unmarshal(attrsRaw, &rec.Attrs); err != nil {
		return nil, fmt.Errorf("decode record attrs: %w", err)
	}
	if err := json.Unmarshal(metaRaw, &rec.Meta); err != nil {
		return nil, fmt.Errorf("decode record meta: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec *models.Record) error {
	if rec == nil {
		return fmt.Errorf("record is required")
	}
	attrsRaw, err := json.Marshal(rec.Attrs)
	if err != nil {
		return fmt.Errorf("encode record attrs: %w", err)
	}
	meta := rec.Meta
	if meta == nil {
		meta = provenance.Meta{}
	}
	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode record meta: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO master_records (entity_id, model, attrs, meta, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (entity_id, model)
		 DO UPDATE SET attrs = EXCLUDED.attrs, meta = EXCLUDED.meta, updated_at = EXCLUDED.updated_at`,
		uuid.UUID(rec.EntityID), rec.Model, attrsRaw, metaRaw, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("put master record: %w", err)
	}
	return nil
}
