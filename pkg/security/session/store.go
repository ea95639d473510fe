package session

import (
	"context"
	"sync"
	"time"
)

// Store tracks revoked session tokens until they expire on their own.
type Store interface {
	// Revoke marks a token as revoked for the given duration.
	Revoke(ctx context.Context, token string, expiration time.Duration) error

	// IsRevoked reports whether a token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Close releases resources held by the store.
	Close() error
}

type memoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates an in-process revocation store. Entries are swept
// after they expire. Suitable for single-instance deployments and tests.
func NewMemoryStore(cleanupInterval time.Duration) Store {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	s := &memoryStore{
		revoked: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.cleanupLoop(cleanupInterval)
	return s
}

func (s *memoryStore) Revoke(ctx context.Context, token string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = time.Now().Add(expiration)
	return nil
}

func (s *memoryStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expireAt, ok := s.revoked[token]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expireAt), nil
}

func (s *memoryStore) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *memoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

func (s *memoryStore) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, expireAt := range s.revoked {
		if now.After(expireAt) {
			delete(s.revoked, token)
		}
	}
}
