package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRevoker is the single-instance fallback used when no redis address
// is configured, and the implementation tests run against.
type MemoryRevoker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.expires[tokenID] = m.now().Add(ttl)
	m.purgeLocked()
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.expires[tokenID]
	if !ok {
		return false, nil
	}
	if m.now().After(exp) {
		delete(m.expires, tokenID)
		return false, nil
	}
	return true, nil
}

func (m *MemoryRevoker) purgeLocked() {
	now := m.now()
	for id, exp := range m.expires {
		if now.After(exp) {
			delete(m.expires, id)
		}
	}
}

var _ Revoker = (*MemoryRevoker)(nil)
