package csrf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "recordguard:csrf:"

type redisStore struct {
	client *goredis.Client
}

// NewRedisStore creates a token store backed by Redis. The take uses GETDEL,
// so consumption is atomic across instances without scripting. Expiration is
// delegated to key TTLs.
func NewRedisStore(client *goredis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Put(ctx context.Context, sessionID, token string, issuedAt time.Time, lifetime time.Duration) error {
	key := tokenKey(sessionID, token)
	value := strconv.FormatInt(issuedAt.UnixMilli(), 10)
	if err := s.client.Set(ctx, key, value, lifetime).Err(); err != nil {
		return fmt.Errorf("store csrf token: %w", err)
	}
	return nil
}

func (s *redisStore) Take(ctx context.Context, sessionID, token string) (time.Time, bool, error) {
	value, err := s.client.GetDel(ctx, tokenKey(sessionID, token)).Result()
	if err == goredis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("take csrf token: %w", err)
	}

	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse csrf token issue time: %w", err)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *redisStore) Close() error {
	return nil
}

func tokenKey(sessionID, token string) string {
	return tokenKeyPrefix + sessionID + ":" + token
}
