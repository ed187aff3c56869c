package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// SupplyResponse defines the data returned for the supply registry.
type SupplyResponse struct {
	TotalMinted       decimal.Decimal `json:"totalMinted"`
	Distributed       decimal.Decimal `json:"distributed"`
	BankNotesIssued   decimal.Decimal `json:"bankNotesIssued"`
	BankNotesRedeemed decimal.Decimal `json:"bankNotesRedeemed"`
	AvailableReserve  decimal.Decimal `json:"availableReserve"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy     string          `json:"lastUpdatedBy"`
}

// ToSupplyResponse converts a domain.SupplyRegistry to SupplyResponse DTO
func ToSupplyResponse(s *domain.SupplyRegistry) SupplyResponse {
	return SupplyResponse{
		TotalMinted:       s.TotalMinted,
		Distributed:       s.Distributed,
		BankNotesIssued:   s.BankNotesIssued,
		BankNotesRedeemed: s.BankNotesRedeemed,
		AvailableReserve:  s.AvailableReserve(),
		LastUpdatedAt:     s.LastUpdatedAt,
		LastUpdatedBy:     s.LastUpdatedBy,
	}
}

// BankNoteRequest defines a physical banknote conversion in either direction.
type BankNoteRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required,gt=0"`
	OTPCode string          `json:"otpCode" binding:"required"`
	Note    string          `json:"note"`
}
