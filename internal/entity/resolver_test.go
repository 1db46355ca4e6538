package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provenio/internal/entity/store/link"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
)

type failingLinkStore struct{}

func (failingLinkStore) FindLink(context.Context, id.ClientEntityID) (id.LegalEntityID, error) {
	return id.LegalEntityID{}, errors.New("connection refused")
}

func (failingLinkStore) SaveLink(context.Context, id.ClientEntityID, id.LegalEntityID) error {
	return errors.New("connection refused")
}

func TestResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("unlinked client entity resolves to not-ok, not an error", func(t *testing.T) {
		r := NewResolver(link.NewMemory(), nil)
		_, ok, err := r.Resolve(ctx, id.ClientEntityID(uuid.New()))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("linked client entity resolves", func(t *testing.T) {
		links := link.NewMemory()
		clientID := id.ClientEntityID(uuid.New())
		legalID := id.LegalEntityID(uuid.New())
		require.NoError(t, links.SaveLink(ctx, clientID, legalID))

		r := NewResolver(links, nil)
		got, ok, err := r.Resolve(ctx, clientID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, legalID, got)
	})

	t.Run("nil client id is invalid input", func(t *testing.T) {
		r := NewResolver(link.NewMemory(), nil)
		_, _, err := r.Resolve(ctx, id.ClientEntityID{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("store failure surfaces as internal", func(t *testing.T) {
		r := NewResolver(failingLinkStore{}, nil)
		_, _, err := r.Resolve(ctx, id.ClientEntityID(uuid.New()))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
