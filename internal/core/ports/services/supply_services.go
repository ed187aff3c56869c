package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// SupplySvcFacade exposes the supply registry and the banknote flows.
// Banknote operations are central-bank only and OTP-gated (same store and
// expiry rules as minting, without the approval quorum).
type SupplySvcFacade interface {
	GetSupply(ctx context.Context) (*domain.SupplyRegistry, error)

	// RequestBankNoteOTP issues a passcode to the acting central-bank account
	// that authorizes a subsequent issue or redeem call.
	RequestBankNoteOTP(ctx context.Context, actorID string) error

	IssueBankNotes(ctx context.Context, actorID string, amount decimal.Decimal, otpCode string, note string) (*domain.Transaction, error)
	RedeemBankNotes(ctx context.Context, actorID string, amount decimal.Decimal, otpCode string, note string) (*domain.Transaction, error)
}
