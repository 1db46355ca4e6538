package history

import (
	"context"
	"sync"

	"provenio/internal/masterdata/models"
	id "provenio/pkg/domain"
)

type historyKey struct {
	entityID id.LegalEntityID
	fieldNo  id.FieldNo
}

// InMemoryStore keeps the append-only field history in process memory.
// No update or delete API exists on any implementation.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[historyKey][]models.MasterDataEvent
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		events: make(map[historyKey][]models.MasterDataEvent),
	}
}

func (s *InMemoryStore) Append(_ context.Context, event models.MasterDataEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := historyKey{entityID: event.EntityID, fieldNo: event.FieldNo}
	s.events[key] = append(s.events[key], event)
	return nil
}

// History returns events newest first, at most limit entries. limit <= 0
// means no limit.
func (s *InMemoryStore) History(_ context.Context, entityID id.LegalEntityID, fieldNo id.FieldNo, limit int) ([]models.MasterDataEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.events[historyKey{entityID: entityID, fieldNo: fieldNo}]
	out := make([]models.MasterDataEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
