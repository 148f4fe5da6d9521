package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Raficate/missions/backend/models"
)

// MemoryStore is a map-backed DocumentStore for tests and local runs.
// Documents are deep-copied on the way in and out so callers cannot alias
// stored state.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]models.UserDoc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]models.UserDoc{}}
}

func (s *MemoryStore) Exists(ctx context.Context, uid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[uid]
	return ok, nil
}

func (s *MemoryStore) Get(ctx context.Context, uid string) (*models.UserDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uid]
	if !ok {
		return nil, nil
	}
	out := doc.Clone()
	return &out, nil
}

func (s *MemoryStore) Create(ctx context.Context, uid string, doc models.UserDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uid]; ok {
		return fmt.Errorf("%w: document for %s already exists", ErrUnavailable, uid)
	}
	s.docs[uid] = doc.Clone()
	return nil
}

func (s *MemoryStore) UpdateState(ctx context.Context, uid string, state models.MissionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uid]
	if !ok {
		return fmt.Errorf("%w: no document for %s", ErrUnavailable, uid)
	}
	doc.MissionState = state.Clone()
	s.docs[uid] = doc
	return nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, uid string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uid]
	if !ok {
		return fmt.Errorf("%w: no document for %s", ErrUnavailable, uid)
	}
	doc.UserProfile = profile
	s.docs[uid] = doc
	return nil
}
