package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "recordguard:session:revoked:"

type redisStore struct {
	client *goredis.Client
}

// NewRedisStore creates a revocation store backed by Redis so revocations are
// visible to every instance. Keys carry a TTL matching the token lifetime.
func NewRedisStore(client *goredis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Revoke(ctx context.Context, token string, expiration time.Duration) error {
	key := revokedKey(token)
	if err := s.client.Set(ctx, key, "1", expiration).Err(); err != nil {
		return fmt.Errorf("revoke session token: %w", err)
	}
	return nil
}

func (s *redisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return n > 0, nil
}

func (s *redisStore) Close() error {
	return nil
}

// revokedKey hashes the token so raw JWTs never land in Redis.
func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}
