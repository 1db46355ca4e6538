//go:build integration

package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"provenio/internal/masterdata/models"
	"provenio/internal/masterdata/store/history"
	id "provenio/pkg/domain"
	"provenio/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *history.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = history.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "master_data_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) appendEvent(entityID id.LegalEntityID, fieldNo id.FieldNo, value string, ts time.Time) models.MasterDataEvent {
	event := models.MasterDataEvent{
		ID:        id.EventID(uuid.New()),
		EntityID:  entityID,
		FieldNo:   fieldNo,
		Value:     value,
		Source:    id.SourceGLEIF,
		Timestamp: ts,
	}
	s.Require().NoError(s.store.Append(context.Background(), event))
	return event
}

func (s *PostgresStoreSuite) TestHistoryNewestFirst() {
	entityID := id.LegalEntityID(uuid.New())
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	s.appendEvent(entityID, 3, "first", base)
	s.appendEvent(entityID, 3, "second", base.Add(time.Hour))
	s.appendEvent(entityID, 3, "third", base.Add(2*time.Hour))

	events, err := s.store.History(context.Background(), entityID, 3, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal("third", events[0].Value)
	s.Equal("second", events[1].Value)
	s.Equal("first", events[2].Value)
}

func (s *PostgresStoreSuite) TestHistoryIsScopedToEntityAndField() {
	entityID := id.LegalEntityID(uuid.New())
	otherEntity := id.LegalEntityID(uuid.New())
	now := time.Now().UTC()

	s.appendEvent(entityID, 3, "mine", now)
	s.appendEvent(entityID, 10, "other field", now)
	s.appendEvent(otherEntity, 3, "other entity", now)

	events, err := s.store.History(context.Background(), entityID, 3, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("mine", events[0].Value)
}

func (s *PostgresStoreSuite) TestHistoryLimit() {
	entityID := id.LegalEntityID(uuid.New())
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.appendEvent(entityID, 3, "v", base.Add(time.Duration(i)*time.Second))
	}

	events, err := s.store.History(context.Background(), entityID, 3, 2)
	s.Require().NoError(err)
	s.Len(events, 2)
}
