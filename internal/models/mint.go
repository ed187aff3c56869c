package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MintRequest is the DB row shape for minting requests. Approvals live in
// the mint_approvals table, keyed by (request_id, approver_id).
type MintRequest struct {
	RequestID         string          `db:"request_id"`
	RequestedBy       string          `db:"requested_by"`
	Amount            decimal.Decimal `db:"amount"`
	Purpose           string          `db:"purpose"`
	DocumentDate      time.Time       `db:"document_date"`
	Status            string          `db:"status"`
	RequiredApprovals int             `db:"required_approvals"`
	ResolvedBy        string          `db:"resolved_by"`       // Nullable
	ResolutionReason  string          `db:"resolution_reason"` // Nullable
	AuditFields
}

// MintApproval is one approver's recorded approval of a mint request.
type MintApproval struct {
	RequestID  string    `db:"request_id"`
	ApproverID string    `db:"approver_id"`
	ApprovedAt time.Time `db:"approved_at"`
}
