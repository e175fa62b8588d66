package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"logviewer/internal/logger"
)

type RedisStore struct {
	client *redis.Client
	prefix string
	policy Policy
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store. Keys carry a TTL equal
// to the session's remaining validity, so Redis expires idle sessions on its
// own; Sweep only has to deal with records it cannot parse.
func NewRedisStore(client *redis.Client, prefix string, policy Policy) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		policy: policy,
		now:    time.Now,
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) Create(ctx context.Context) (string, error) {
	if _, err := r.Sweep(ctx); err != nil {
		logger.Warn("session sweep failed", map[string]any{"error": err.Error(), "backend": "redis"})
	}

	token, err := GenerateID()
	if err != nil {
		return "", err
	}

	now := r.now()
	if err := r.save(ctx, Session{Token: token, Created: now, LastActivity: now}, now); err != nil {
		return "", err
	}
	return token, nil
}

func (r *RedisStore) Validate(ctx context.Context, token string) bool {
	if token == "" || CheckToken(token) != nil {
		return false
	}

	val, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logger.Warn("session read failed", map[string]any{"error": err.Error(), "backend": "redis"})
		return false
	}

	s, err := decodeRecord(token, val)
	now := r.now()
	if err != nil || r.policy.Expired(s, now) {
		_ = r.client.Del(ctx, r.key(token)).Err()
		return false
	}

	s.LastActivity = now
	if err := r.save(ctx, s, now); err != nil {
		logger.Warn("session renew failed", map[string]any{"error": err.Error(), "backend": "redis"})
		return false
	}
	return true
}

func (r *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" || CheckToken(token) != nil {
		return nil
	}
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func (r *RedisStore) Sweep(ctx context.Context) (int, error) {
	now := r.now()
	removed := 0

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("session: sweep: %w", err)
		}

		s, err := decodeRecord(key[len(r.prefix):], val)
		if err != nil || r.policy.Expired(s, now) {
			if n, err := r.client.Del(ctx, key).Result(); err == nil {
				removed += int(n)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("session: sweep: %w", err)
	}
	return removed, nil
}

func (r *RedisStore) save(ctx context.Context, s Session, now time.Time) error {
	ttl := r.policy.Remaining(s, now)
	if ttl <= 0 {
		// If expired, delete session instead of extending
		return r.client.Del(ctx, r.key(s.Token)).Err()
	}

	data, err := encodeRecord(s)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key(s.Token), data, ttl).Err()
}
