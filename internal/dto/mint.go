package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// CreateMintRequest defines the data needed to open a minting request.
type CreateMintRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Purpose      string          `json:"purpose" binding:"required"`
	DocumentDate time.Time       `json:"documentDate"`
}

// SubmitOTPRequest carries the one-time passcode for a minting request.
type SubmitOTPRequest struct {
	Code string `json:"code" binding:"required"`
}

// RejectMintRequest carries the mandatory rejection reason.
type RejectMintRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MintRequestResponse defines the data returned for a minting request.
// Mirrors domain.MintRequest.
type MintRequestResponse struct {
	RequestID         string          `json:"requestID"`
	RequestedBy       string          `json:"requestedBy"`
	Amount            decimal.Decimal `json:"amount"`
	Purpose           string          `json:"purpose"`
	DocumentDate      time.Time       `json:"documentDate"`
	Status            string          `json:"status"`
	Approvals         []string        `json:"approvals"`
	RequiredApprovals int             `json:"requiredApprovals"`
	ResolvedBy        string          `json:"resolvedBy,omitempty"`
	ResolutionReason  string          `json:"resolutionReason,omitempty"`
	Expired           bool            `json:"expired"`
	CreatedAt         time.Time       `json:"createdAt"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
}

// ToMintRequestResponse converts a domain.MintRequest to MintRequestResponse DTO
func ToMintRequestResponse(req *domain.MintRequest) MintRequestResponse {
	approvals := req.Approvals
	if approvals == nil {
		approvals = []string{}
	}
	return MintRequestResponse{
		RequestID:         req.RequestID,
		RequestedBy:       req.RequestedBy,
		Amount:            req.Amount,
		Purpose:           req.Purpose,
		DocumentDate:      req.DocumentDate,
		Status:            string(req.Status),
		Approvals:         approvals,
		RequiredApprovals: req.RequiredApprovals,
		ResolvedBy:        req.ResolvedBy,
		ResolutionReason:  req.ResolutionReason,
		Expired:           req.Expired,
		CreatedAt:         req.CreatedAt,
		LastUpdatedAt:     req.LastUpdatedAt,
	}
}

// ToMintRequestResponses converts a slice of domain mint requests to DTOs.
func ToMintRequestResponses(reqs []domain.MintRequest) []MintRequestResponse {
	out := make([]MintRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToMintRequestResponse(&reqs[i]))
	}
	return out
}

// ListMintRequestsParams defines query parameters for listing mint requests.
type ListMintRequestsParams struct {
	Status string `form:"status" binding:"required,oneof=DRAFT AWAITING_OTP PENDING_APPROVAL APPROVED REJECTED"`
}
