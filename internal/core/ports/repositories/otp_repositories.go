package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCodeNotFound is returned when no code is stored for a key (never issued,
// expired, or already consumed).
var ErrCodeNotFound = errors.New("otp code not found")

// OTPStore holds one-time passcode hashes with expiry and attempt counters.
// Codes are stored hashed; the plaintext only ever travels through the
// delivery channel. Keys identify the guarded operation (e.g. a mint request
// ID), not the user.
type OTPStore interface {
	// StoreCodeHash stores the hash for a key with the given TTL, replacing
	// any previous code and resetting the attempt counter.
	StoreCodeHash(ctx context.Context, key string, codeHash string, ttl time.Duration) error

	// GetCodeHash returns the stored hash, or ErrCodeNotFound.
	GetCodeHash(ctx context.Context, key string) (string, error)

	// ConsumeCode removes the code so it cannot be replayed.
	ConsumeCode(ctx context.Context, key string) error

	// IncrementAttempts bumps the failed-attempt counter for the key and
	// returns the new count. The counter expires with the code.
	IncrementAttempts(ctx context.Context, key string, ttl time.Duration) (int, error)
}
