package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"circlegov/internal/domain"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with TTL-based expiry.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Put stores a session token for a user.
func (s *RedisStore) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	record := Record{UserID: userID, ExpiresAt: s.now().Add(ttl)}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Validate resolves a token to its user id.
func (s *RedisStore) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domain.NewError(domain.CodeSessionNotFound, "Session not found")
		}
		return uuid.Nil, fmt.Errorf("failed to load session: %w", err)
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode session record: %w", err)
	}

	// Redis TTL normally expires the key first; the stored timestamp
	// guards against clock drift between writers.
	if !record.ExpiresAt.After(s.now()) {
		_ = s.client.Del(ctx, keyPrefix+token).Err()
		return uuid.Nil, domain.NewError(domain.CodeSessionExpired, "Session expired")
	}

	return record.UserID, nil
}

// Revoke deletes a session token.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
