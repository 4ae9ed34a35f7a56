package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store used in tests and single-node setups.
// Expired keys are dropped lazily on Get.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]entry

	// now is a seam for testing expiry.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", common.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return "", common.ErrNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
