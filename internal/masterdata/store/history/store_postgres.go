package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"provenio/internal/masterdata/models"
	id "provenio/pkg/domain"
)

// PostgresStore persists the append-only field history in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE master_data_events (
//	    id        UUID PRIMARY KEY,
//	    entity_id UUID NOT NULL,
//	    field_no  INTEGER NOT NULL,
//	    value     TEXT NOT NULL,
//	    source    TEXT NOT NULL,
//	    note      TEXT NOT NULL DEFAULT '',
//	    ts        TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX master_data_events_field_idx
//	    ON master_data_events (entity_id, field_no, ts DESC);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed history store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event models.MasterDataEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO master_data_events (id, entity_id, field_no, value, source, note, ts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(event.ID), uuid.UUID(event.EntityID), int(event.FieldNo),
		event.Value, event.Source.String(), event.Note, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append master data event: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, entityID id.LegalEntityID, fieldNo id.FieldNo, limit int) ([]models.MasterDataEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_id, field_no, value, source, note, ts
		 FROM master_data_events
		 WHERE entity_id = $1 AND field_no = $2
		 ORDER BY ts DESC, id DESC
		 LIMIT $3`,
		uuid.UUID(entityID), int(fieldNo), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list master data events: %w", err)
	}
	defer rows.Close()

	var events []models.MasterDataEvent
	for rows.Next() {
		var (
			eventID  uuid.UUID
			entity   uuid.UUID
			fieldInt int
			source   string
			event    models.MasterDataEvent
		)
		if err := rows.Scan(&eventID, &entity, &fieldInt, &event.Value, &source, &event.Note, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan master data event: %w", err)
		}
		event.ID = id.EventID(eventID)
		event.EntityID = id.LegalEntityID(entity)
		event.FieldNo = id.FieldNo(fieldInt)
		event.Source = id.Source(source)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate master data events: %w", err)
	}
	return events, nil
}
