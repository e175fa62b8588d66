package session

import (
	"context"
	"sync"
	"time"

	"logviewer/internal/logger"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on
// restart; Run sweeps expired entries in the background.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	policy   Policy
	now      func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(policy Policy) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		policy:   policy,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context) (string, error) {
	_, _ = m.Sweep(ctx)

	token, err := GenerateID()
	if err != nil {
		return "", err
	}

	now := m.now()
	m.mu.Lock()
	m.sessions[token] = Session{Token: token, Created: now, LastActivity: now}
	m.mu.Unlock()
	return token, nil
}

func (m *MemoryStore) Validate(ctx context.Context, token string) bool {
	if token == "" || CheckToken(token) != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return false
	}

	now := m.now()
	if m.policy.Expired(s, now) {
		delete(m.sessions, token)
		return false
	}

	s.LastActivity = now
	m.sessions[token] = s
	return true
}

func (m *MemoryStore) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Sweep(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, s := range m.sessions {
		if m.policy.Expired(s, now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, live or not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run sweeps every interval until ctx is cancelled.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, _ := m.Sweep(ctx); n > 0 {
				logger.Debug("session sweep", map[string]any{"removed": n, "backend": "memory"})
			}
		}
	}
}
