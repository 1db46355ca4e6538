package questionnaire

import (
	"context"
	"sync"

	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
)

// InMemoryService is a Service implementation backed by process memory.
// It stands in for the questionnaire subsystem in tests and single-node
// development setups.
type InMemoryService struct {
	mu        sync.RWMutex
	byEntity  map[id.ClientEntityID][]id.QuestionID
	questions map[id.QuestionID]Question
}

func NewInMemory() *InMemoryService {
	return &InMemoryService{
		byEntity:  make(map[id.ClientEntityID][]id.QuestionID),
		questions: make(map[id.QuestionID]Question),
	}
}

// AddQuestion registers a question under a client entity.
func (s *InMemoryService) AddQuestion(clientID id.ClientEntityID, q Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byEntity[clientID] = append(s.byEntity[clientID], q.ID)
	s.questions[q.ID] = q
}

func (s *InMemoryService) ListQuestions(_ context.Context, clientID id.ClientEntityID) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byEntity[clientID]
	out := make([]Question, 0, len(ids))
	for _, questionID := range ids {
		out = append(out, s.questions[questionID])
	}
	return out, nil
}

func (s *InMemoryService) GetQuestion(_ context.Context, questionID id.QuestionID) (*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[questionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &q, nil
}

func (s *InMemoryService) UpdateAnswer(_ context.Context, questionID id.QuestionID, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	q.Answer = &answer
	s.questions[questionID] = q
	return nil
}
