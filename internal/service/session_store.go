package service

import (
	"context"
	"sync"
	"time"
)

// SessionStore per-session admin state: logouts and armed confirmations.
// *redis.Client satisfies it; NewMemorySessionStore is used when redis is not configured.
type SessionStore interface {
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
	ArmConfirmation(ctx context.Context, sessionID, action string, ttl time.Duration) error
	IsConfirmationArmed(ctx context.Context, sessionID, action string) (bool, error)
	DisarmConfirmations(ctx context.Context, sessionID string, actions ...string) error
}

// ── in-process fallback ──

type memorySessionStore struct {
	mu      sync.Mutex
	entries map[string]time.Time // key → expiry
	now     func() time.Time
}

// NewMemorySessionStore single-process SessionStore. State is lost on restart,
// which only logs nobody out early and forgets half-confirmed resets.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *memorySessionStore) set(key string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = now.Add(ttl)
}

func (m *memorySessionStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.entries[key]
	if !ok {
		return false
	}
	if !exp.After(m.now()) {
		delete(m.entries, key)
		return false
	}
	return true
}

func (m *memorySessionStore) RevokeSession(_ context.Context, sessionID string, ttl time.Duration) error {
	m.set("revoked:"+sessionID, ttl)
	return nil
}

func (m *memorySessionStore) IsSessionRevoked(_ context.Context, sessionID string) (bool, error) {
	return m.has("revoked:" + sessionID), nil
}

func (m *memorySessionStore) ArmConfirmation(_ context.Context, sessionID, action string, ttl time.Duration) error {
	m.set("confirm:"+sessionID+":"+action, ttl)
	return nil
}

func (m *memorySessionStore) IsConfirmationArmed(_ context.Context, sessionID, action string) (bool, error) {
	return m.has("confirm:" + sessionID + ":" + action), nil
}

func (m *memorySessionStore) DisarmConfirmations(_ context.Context, sessionID string, actions ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range actions {
		delete(m.entries, "confirm:"+sessionID+":"+a)
	}
	return nil
}
