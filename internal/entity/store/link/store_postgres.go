package link

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
)

// PostgresStore persists entity links in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE entity_links (
//	    client_entity_id UUID PRIMARY KEY,
//	    legal_entity_id  UUID NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed link store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindLink(ctx context.Context, clientID id.ClientEntityID) (id.LegalEntityID, error) {
	var legalID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT legal_entity_id FROM entity_links WHERE client_entity_id = $1`,
		uuid.UUID(clientID),
	).Scan(&legalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.LegalEntityID{}, sentinel.ErrNotFound
		}
		return id.LegalEntityID{}, fmt.Errorf("find entity link: %w", err)
	}
	return id.LegalEntityID(legalID), nil
}

func (s *PostgresStore) SaveLink(ctx context.Context, clientID id.ClientEntityID, legalID id.LegalEntityID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entity_links (client_entity_id, legal_entity_id)
		 VALUES ($1, $2)
		 ON CONFLICT (client_entity_id) DO UPDATE SET legal_entity_id = EXCLUDED.legal_entity_id`,
		uuid.UUID(clientID), uuid.UUID(legalID),
	)
	if err != nil {
		return fmt.Errorf("save entity link: %w", err)
	}
	return nil
}
