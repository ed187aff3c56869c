package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MintStatus is the state of a minting request. Transitions only move
// forward: DRAFT -> AWAITING_OTP -> PENDING_APPROVAL -> APPROVED | REJECTED,
// with the single exception of OTP-exhaustion cancellation back to DRAFT.
type MintStatus string

const (
	MintDraft           MintStatus = "DRAFT"
	MintAwaitingOTP     MintStatus = "AWAITING_OTP"
	MintPendingApproval MintStatus = "PENDING_APPROVAL"
	MintApproved        MintStatus = "APPROVED"
	MintRejected        MintStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s MintStatus) Terminal() bool {
	return s == MintApproved || s == MintRejected
}

// MintRequest is a central-bank request to increase total supply.
// Supply increases exactly once, at the PENDING_APPROVAL -> APPROVED
// transition, when the approval set reaches RequiredApprovals.
type MintRequest struct {
	RequestID         string          `json:"requestID"` // Primary Key (UUID)
	RequestedBy       string          `json:"requestedBy"`
	Amount            decimal.Decimal `json:"amount"` // Positive
	Purpose           string          `json:"purpose"`
	DocumentDate      time.Time       `json:"documentDate"`
	Status            MintStatus      `json:"status"`
	Approvals         []string        `json:"approvals"` // Distinct approver account IDs
	RequiredApprovals int             `json:"requiredApprovals"`
	ResolvedBy        string          `json:"resolvedBy,omitempty"` // Actor of reject/cancel
	ResolutionReason  string          `json:"resolutionReason,omitempty"`

	// Expired is computed on read, never stored: a PENDING_APPROVAL request
	// past its approval window can no longer be approved.
	Expired bool `json:"expired"`

	AuditFields
}

// PendingExpired reports whether a PENDING_APPROVAL request has outlived its
// approval window. LastUpdatedAt marks when the request entered the state.
func (m *MintRequest) PendingExpired(ttl time.Duration, now time.Time) bool {
	return m.Status == MintPendingApproval && now.Sub(m.LastUpdatedAt) > ttl
}

// HasApproval reports whether the given approver already counts toward quorum.
func (m *MintRequest) HasApproval(approverID string) bool {
	for _, id := range m.Approvals {
		if id == approverID {
			return true
		}
	}
	return false
}

// QuorumReached reports whether the approval set satisfies the quorum.
func (m *MintRequest) QuorumReached() bool {
	return len(m.Approvals) >= m.RequiredApprovals
}
