package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps sessions in Redis under sess:<user_id> with the TTL
// enforced server-side via SETEX. Useful when several bot replicas share one
// session space; selected by REDIS_URL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("sess:%d", userID)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (Session, bool, error) {
	data, err := r.client.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("session get: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Session{}, false, fmt.Errorf("session decode: %w", err)
	}
	return s, true, nil
}

func (r *RedisStore) Put(ctx context.Context, s Session) error {
	s.UpdatedAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := r.client.SetEX(ctx, key(s.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
