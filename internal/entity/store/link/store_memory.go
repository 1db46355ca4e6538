package link

import (
	"context"
	"sync"

	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
)

// InMemoryStore keeps entity links in process memory. Used in tests and
// single-node development setups.
type InMemoryStore struct {
	mu    sync.RWMutex
	links map[id.ClientEntityID]id.LegalEntityID
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		links: make(map[id.ClientEntityID]id.LegalEntityID),
	}
}

func (s *InMemoryStore) FindLink(_ context.Context, clientID id.ClientEntityID) (id.LegalEntityID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	legalID, ok := s.links[clientID]
	if !ok {
		return id.LegalEntityID{}, sentinel.ErrNotFound
	}
	return legalID, nil
}

func (s *InMemoryStore) SaveLink(_ context.Context, clientID id.ClientEntityID, legalID id.LegalEntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links[clientID] = legalID
	return nil
}
