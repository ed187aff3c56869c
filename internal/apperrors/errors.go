package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation lost a concurrency race and is safe to retry whole.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrInsufficientFunds indicates the sending account balance does not cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInsufficientReserve indicates the central bank reserve does not cover the amount.
var ErrInsufficientReserve = errors.New("insufficient reserve")

// ErrAuthorization indicates the actor is not allowed to perform the operation
// (wrong role, self-approval, invalid or expired OTP).
var ErrAuthorization = errors.New("authorization error")

// ErrUnauthorized indicates the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated caller lacks access to the resource.
var ErrForbidden = errors.New("forbidden")

// ErrPersistence indicates the backing store was unavailable or rejected a write.
// Callers must never assume a wrapped ErrPersistence partially applied.
var ErrPersistence = errors.New("persistence failure")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
