package csrf

import (
	"context"
	"sync"
	"time"
)

// Store persists issued tokens keyed by session. Take must remove the token
// in the same operation that looks it up.
type Store interface {
	// Put records a token issued for the session at the given time.
	Put(ctx context.Context, sessionID, token string, issuedAt time.Time, lifetime time.Duration) error

	// Take atomically removes the token and returns its issue time. The
	// second return is false when the token does not exist (never issued,
	// already consumed, or evicted).
	Take(ctx context.Context, sessionID, token string) (time.Time, bool, error)

	// Close releases resources held by the store.
	Close() error
}

type memoryStore struct {
	mu     sync.Mutex
	tokens map[string]map[string]memoryEntry
	done   chan struct{}
	once   sync.Once
}

type memoryEntry struct {
	issuedAt time.Time
	expireAt time.Time
}

// NewMemoryStore creates an in-process token store. Expired tokens are swept
// periodically so abandoned tokens do not accumulate. Suitable for
// single-instance deployments and tests.
func NewMemoryStore(sweepInterval time.Duration) Store {
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Minute
	}

	s := &memoryStore{
		tokens: make(map[string]map[string]memoryEntry),
		done:   make(chan struct{}),
	}
	go s.sweepLoop(sweepInterval)
	return s
}

func (s *memoryStore) Put(ctx context.Context, sessionID, token string, issuedAt time.Time, lifetime time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byToken, ok := s.tokens[sessionID]
	if !ok {
		byToken = make(map[string]memoryEntry)
		s.tokens[sessionID] = byToken
	}
	byToken[token] = memoryEntry{
		issuedAt: issuedAt,
		expireAt: issuedAt.Add(lifetime),
	}
	return nil
}

func (s *memoryStore) Take(ctx context.Context, sessionID, token string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byToken, ok := s.tokens[sessionID]
	if !ok {
		return time.Time{}, false, nil
	}
	entry, ok := byToken[token]
	if !ok {
		return time.Time{}, false, nil
	}

	delete(byToken, token)
	if len(byToken) == 0 {
		delete(s.tokens, sessionID)
	}
	return entry.issuedAt, true, nil
}

func (s *memoryStore) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *memoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *memoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for sessionID, byToken := range s.tokens {
		for token, entry := range byToken {
			if now.After(entry.expireAt) {
				delete(byToken, token)
			}
		}
		if len(byToken) == 0 {
			delete(s.tokens, sessionID)
		}
	}
}
