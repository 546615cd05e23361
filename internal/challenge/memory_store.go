package challenge

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	challenge Challenge
	expiresAt time.Time
}

// MemoryStore is an in-memory Store used in tests and when Redis is not
// configured. Expiry is checked lazily on redeem.
type MemoryStore struct {
	mu   sync.Mutex
	m    map[string]memoryEntry
	ttl  time.Duration
	nowF func() time.Time
}

// NewMemoryStore builds an in-memory challenge store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]memoryEntry),
		ttl:  ttl,
		nowF: time.Now,
	}
}

func (s *MemoryStore) Issue(_ context.Context, identifier string, kind Kind, payload Payload) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("challenge: generate code: %w", err)
	}

	now := s.nowF().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[identifier] = memoryEntry{
		challenge: Challenge{Kind: kind, CodeHash: HashCode(code), Payload: payload, CreatedAt: now},
		expiresAt: now.Add(s.ttl),
	}
	return code, nil
}

func (s *MemoryStore) Redeem(_ context.Context, identifier string, kind Kind, code string) (Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[identifier]
	if !ok {
		return Payload{}, ErrNoChallenge
	}
	if !entry.expiresAt.After(s.nowF().UTC()) {
		delete(s.m, identifier)
		return Payload{}, ErrNoChallenge
	}

	if err := entry.challenge.validate(kind, code); err != nil {
		return Payload{}, err
	}

	delete(s.m, identifier)
	return entry.challenge.Payload, nil
}
