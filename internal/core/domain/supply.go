package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyRegistry is the singleton record tracking total CBDC supply.
// Invariant: distributed + bankNotesIssued <= totalMinted, all fields non-negative.
type SupplyRegistry struct {
	TotalMinted       decimal.Decimal `json:"totalMinted"`
	Distributed       decimal.Decimal `json:"distributed"`
	BankNotesIssued   decimal.Decimal `json:"bankNotesIssued"`
	BankNotesRedeemed decimal.Decimal `json:"bankNotesRedeemed"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy     string          `json:"lastUpdatedBy"`
}

// AvailableReserve is the central bank's unallocated supply.
func (s SupplyRegistry) AvailableReserve() decimal.Decimal {
	return s.TotalMinted.Sub(s.Distributed).Sub(s.BankNotesIssued)
}

// CanDistribute reports whether the reserve covers an outgoing amount.
func (s SupplyRegistry) CanDistribute(amount decimal.Decimal) bool {
	return s.AvailableReserve().GreaterThanOrEqual(amount)
}

// CanIssueBankNote reports whether the reserve covers a banknote issuance.
func (s SupplyRegistry) CanIssueBankNote(amount decimal.Decimal) bool {
	return s.AvailableReserve().GreaterThanOrEqual(amount)
}

// CanRedeemBankNote reports whether enough banknotes are outstanding to redeem.
func (s SupplyRegistry) CanRedeemBankNote(amount decimal.Decimal) bool {
	return s.BankNotesIssued.GreaterThanOrEqual(amount)
}
