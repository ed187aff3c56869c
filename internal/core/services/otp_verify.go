package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	"github.com/dr9911/CBDC-sub000/internal/utils"
)

// otpResult classifies a verification attempt for metrics and error text.
type otpResult string

const (
	otpOK        otpResult = "ok"
	otpMismatch  otpResult = "mismatch"
	otpExpired   otpResult = "expired"
	otpExhausted otpResult = "exhausted"
)

// verifyAndConsumeOTP checks a plaintext passcode against the stored hash for
// key. A correct code is consumed so it cannot be replayed. A wrong code bumps
// the attempt counter; once the counter reaches maxAttempts the code is
// consumed as well, forcing a fresh issue.
func verifyAndConsumeOTP(ctx context.Context, store portsrepo.OTPStore, key, code string, maxAttempts int, ttl time.Duration) (otpResult, error) {
	hash, err := store.GetCodeHash(ctx, key)
	if err != nil {
		if errors.Is(err, portsrepo.ErrCodeNotFound) {
			return otpExpired, fmt.Errorf("%w: passcode expired or not issued", apperrors.ErrAuthorization)
		}
		return otpExpired, fmt.Errorf("%w: passcode lookup failed: %s", apperrors.ErrPersistence, err.Error())
	}

	if !utils.CheckOTPCodeHash(code, hash) {
		attempts, incErr := store.IncrementAttempts(ctx, key, ttl)
		if incErr != nil {
			return otpMismatch, fmt.Errorf("%w: incorrect passcode", apperrors.ErrAuthorization)
		}
		if attempts >= maxAttempts {
			// Burn the code. The caller must request a new one.
			_ = store.ConsumeCode(ctx, key)
			return otpExhausted, fmt.Errorf("%w: passcode attempts exhausted", apperrors.ErrAuthorization)
		}
		return otpMismatch, fmt.Errorf("%w: incorrect passcode", apperrors.ErrAuthorization)
	}

	if err := store.ConsumeCode(ctx, key); err != nil {
		return otpOK, fmt.Errorf("%w: failed to consume passcode: %s", apperrors.ErrPersistence, err.Error())
	}
	return otpOK, nil
}
