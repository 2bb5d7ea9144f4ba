// Package idempotency remembers Idempotency-Key headers in Redis so a
// repeated transfer request is rejected instead of applied twice.
package idempotency

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "stockroom/internal/errors"
)

const keyPrefix = "idempotency:transfer:"

type Store struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewStore(client *goredis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Acquire claims key for owner. It reports false when the key is already
// held, either by a request still in flight or by one that completed within
// the TTL.
func (s *Store) Acquire(ctx context.Context, key, owner string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, owner, s.ttl).Result()
	if err != nil {
		return false, apperrors.NewInternalError("acquiring idempotency key", err)
	}
	return ok, nil
}

// Release drops key so the request can be retried. Only the owner that
// acquired it may release it.
func (s *Store) Release(ctx context.Context, key, owner string) error {
	err := releaseScript.Run(ctx, s.client, []string{keyPrefix + key}, owner).Err()
	if err != nil && err != goredis.Nil {
		return apperrors.NewInternalError("releasing idempotency key", err)
	}
	return nil
}

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
