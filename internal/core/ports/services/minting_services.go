package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// OTPSender delivers a one-time passcode to an account's registered contact
// channel. It is an external collaborator; the workflow only cares that
// delivery was accepted.
type OTPSender interface {
	SendOTP(ctx context.Context, accountID string, code string) error
}

// MintingReaderSvc defines read operations on mint requests.
type MintingReaderSvc interface {
	GetMintRequest(ctx context.Context, requestID string) (*domain.MintRequest, error)
	ListMintRequests(ctx context.Context, status domain.MintStatus, limit int) ([]domain.MintRequest, error)
}

// MintingWriterSvc drives the mint request state machine.
type MintingWriterSvc interface {
	// RequestMint creates a request and sends an OTP to the requester,
	// leaving the request AWAITING_OTP. Central-bank role required.
	RequestMint(ctx context.Context, requesterID string, amount decimal.Decimal, purpose string, documentDate time.Time) (*domain.MintRequest, error)

	// SendMintOTP (re)issues the passcode for a draft request, advancing it
	// to AWAITING_OTP. Requester-only.
	SendMintOTP(ctx context.Context, requestID string, requesterID string) (*domain.MintRequest, error)

	// SubmitOTP verifies the passcode. On success the request becomes
	// PENDING_APPROVAL and every other central-bank account is notified.
	// Wrong codes are retryable up to the configured attempt limit and fail
	// with ErrAuthorization.
	SubmitOTP(ctx context.Context, requestID string, requesterID string, code string) (*domain.MintRequest, error)

	// ApproveMint records one approval. Reaching quorum mints the amount,
	// exactly once. Self-approval fails with ErrAuthorization; re-approval by
	// the same approver counts once and is not an error.
	ApproveMint(ctx context.Context, requestID string, approverID string) (*domain.MintRequest, error)

	// RejectMint terminates the request with no supply change.
	RejectMint(ctx context.Context, requestID string, approverID string, reason string) (*domain.MintRequest, error)

	// CancelMint is requester-only. AWAITING_OTP requests fall back to DRAFT;
	// cancelling a PENDING_APPROVAL request is recorded as a rejection
	// attributed to the requester.
	CancelMint(ctx context.Context, requestID string, requesterID string, reason string) (*domain.MintRequest, error)
}

// MintingSvcFacade combines the mint workflow interfaces.
type MintingSvcFacade interface {
	MintingReaderSvc
	MintingWriterSvc
}
