package credstore

import (
	"context"
	"sync"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// MemoryStore keeps the credential for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	value string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == "" {
		return "", domain.ErrNoCredential
	}
	return s.value, nil
}

func (s *MemoryStore) Save(_ context.Context, credential string) error {
	s.mu.Lock()
	s.value = credential
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.value = ""
	s.mu.Unlock()
	return nil
}
