package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
)

const (
	codeKeyPrefix     = "otp:code:"
	attemptsKeyPrefix = "otp:attempts:"
)

// RedisOTPStore is a Redis-backed OTPStore. Code hashes and their attempt
// counters expire together, so a stale counter can never block a fresh code.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore constructs a Redis-backed OTP store.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

var _ portsrepo.OTPStore = (*RedisOTPStore)(nil)

// StoreCodeHash stores the hash with TTL and resets the attempt counter.
// Uses Redis SET with expiry for atomic set-with-TTL.
func (s *RedisOTPStore) StoreCodeHash(ctx context.Context, key string, codeHash string, ttl time.Duration) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, codeKeyPrefix+key, codeHash, ttl)
	pipe.Del(ctx, attemptsKeyPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store otp code: %w", err)
	}
	return nil
}

// GetCodeHash returns the stored hash, or ErrCodeNotFound when the key is
// absent (never issued, expired, or consumed).
func (s *RedisOTPStore) GetCodeHash(ctx context.Context, key string) (string, error) {
	hash, err := s.client.Get(ctx, codeKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", portsrepo.ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get otp code: %w", err)
	}
	return hash, nil
}

// ConsumeCode removes the code and its attempt counter.
func (s *RedisOTPStore) ConsumeCode(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, codeKeyPrefix+key)
	pipe.Del(ctx, attemptsKeyPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to consume otp code: %w", err)
	}
	return nil
}

// IncrementAttempts bumps the failed-attempt counter and returns the new
// count. The counter carries the same TTL as the code so both expire together.
func (s *RedisOTPStore) IncrementAttempts(ctx context.Context, key string, ttl time.Duration) (int, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, attemptsKeyPrefix+key)
	pipe.Expire(ctx, attemptsKeyPrefix+key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment otp attempts: %w", err)
	}
	return int(incr.Val()), nil
}
