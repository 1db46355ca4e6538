//go:build integration

package link_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"provenio/internal/entity/store/link"
	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
	"provenio/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *link.PostgresStore
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
	s.store = link.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "entity_links")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	clientID := id.ClientEntityID(uuid.New())
	legalID := id.LegalEntityID(uuid.New())

	s.Require().NoError(s.store.SaveLink(ctx, clientID, legalID))

	found, err := s.store.FindLink(ctx, clientID)
	s.Require().NoError(err)
	s.Equal(legalID, found)
}

func (s *PostgresStoreSuite) TestUnlinkedIsNotFound() {
	_, err := s.store.FindLink(context.Background(), id.ClientEntityID(uuid.New()))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestRelinkOverwrites() {
	ctx := context.Background()
	clientID := id.ClientEntityID(uuid.New())
	first := id.LegalEntityID(uuid.New())
	second := id.LegalEntityID(uuid.New())

	s.Require().NoError(s.store.SaveLink(ctx, clientID, first))
	s.Require().NoError(s.store.SaveLink(ctx, clientID, second))

	found, err := s.store.FindLink(ctx, clientID)
	s.Require().NoError(err)
	s.Equal(second, found)
}
