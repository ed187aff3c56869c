package repositories

import (
	"context"
	"time"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// MintRepository persists mint requests and their approval sets.
type MintRepository interface {
	SaveMintRequest(ctx context.Context, req domain.MintRequest) error
	FindMintRequestByID(ctx context.Context, requestID string) (*domain.MintRequest, error)
	ListMintRequestsByStatus(ctx context.Context, status domain.MintStatus, limit int) ([]domain.MintRequest, error)

	// UpdateMintStatus moves a request from one status to another. The update
	// is guarded: if the stored status is not `from`, no row is touched and
	// ErrConflict is returned. Status transitions therefore never regress.
	UpdateMintStatus(ctx context.Context, requestID string, from, to domain.MintStatus, actorID string, reason string, now time.Time) error

	// RecordApproval registers one approver on a PENDING_APPROVAL request and
	// returns the post-approval state. The approval insert, quorum count,
	// status flip, and the supply increase on reaching quorum all happen in a
	// single database transaction holding a lock on the request row, so the
	// mint fires exactly once however many approvals race. Re-approval by the
	// same approver is a no-op (counted once).
	RecordApproval(ctx context.Context, requestID string, approverID string, now time.Time) (*domain.MintRequest, error)
}
