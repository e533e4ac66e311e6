package otp

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local Store for tests and single instance runs.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, email string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(email)
	if !ok {
		return nil, nil
	}
	entry := v.(Entry)
	return &entry, nil
}

func (s *MemoryStore) Set(_ context.Context, email string, entry *Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(email, *entry, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.cache.Get(email)
	s.cache.Delete(email)
	return ok, nil
}

func (s *MemoryStore) DeleteIfCode(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(email)
	if !ok || v.(Entry).Code != code {
		return false, nil
	}
	s.cache.Delete(email)
	return true, nil
}
