package record

import (
	"context"
	"sync"

	"provenio/internal/masterdata/models"
	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
)

type recordKey struct {
	entityID id.LegalEntityID
	model    string
}

// InMemoryStore keeps canonical records in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]*models.Record
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[recordKey]*models.Record),
	}
}

// Get returns the record for an entity and model, or sentinel.ErrNotFound.
// The returned record is a clone; callers mutate and Put it back.
func (s *InMemoryStore) Get(_ context.Context, entityID id.LegalEntityID, model string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordKey{entityID: entityID, model: model}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

// Put stores a record, replacing any previous version. Last write wins.
func (s *InMemoryStore) Put(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[recordKey{entityID: rec.EntityID, model: rec.Model}] = rec.Clone()
	return nil
}
