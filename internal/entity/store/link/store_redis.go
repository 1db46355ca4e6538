package link

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "provenio/pkg/domain"
)

const linkKeyPrefix = "link:client:"

// CachedStore is a Redis read-through cache in front of another LinkStore.
// Links change rarely (an entity is linked once during onboarding) but are
// read on every master data operation, so a short TTL cache takes the hot
// path off PostgreSQL in multi-instance deployments.
//
// Only positive results are cached: an unlinked entity must become
// resolvable immediately after the identity subsystem creates the link.
type CachedStore struct {
	inner  LinkStore
	client *redis.Client
	ttl    time.Duration
}

// NewCached wraps inner with a Redis cache. ttl bounds link staleness after
// a re-link.
func NewCached(inner LinkStore, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

func (s *CachedStore) FindLink(ctx context.Context, clientID id.ClientEntityID) (id.LegalEntityID, error) {
	key := linkKeyPrefix + clientID.String()

	cached, err := s.client.Get(ctx, key).Result()
	if err == nil {
		if legalUUID, parseErr := uuid.Parse(cached); parseErr == nil {
			return id.LegalEntityID(legalUUID), nil
		}
		// Unparseable cache entry: fall through to the source of truth.
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailable is not fatal; serve from the inner store.
		legalID, innerErr := s.inner.FindLink(ctx, clientID)
		return legalID, innerErr
	}

	legalID, err := s.inner.FindLink(ctx, clientID)
	if err != nil {
		return id.LegalEntityID{}, err
	}

	_ = s.client.Set(ctx, key, legalID.String(), s.ttl).Err()
	return legalID, nil
}

func (s *CachedStore) SaveLink(ctx context.Context, clientID id.ClientEntityID, legalID id.LegalEntityID) error {
	if err := s.inner.SaveLink(ctx, clientID, legalID); err != nil {
		return err
	}
	// Invalidate rather than write: the next read repopulates from the
	// store, keeping cache and store ordering simple.
	_ = s.client.Del(ctx, linkKeyPrefix+clientID.String()).Err()
	return nil
}
