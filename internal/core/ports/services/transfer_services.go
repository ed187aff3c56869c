package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// TransferSvcFacade is the Transfer Engine contract: validated, atomic value
// movement between two accounts (or the supply reserve and an account).
type TransferSvcFacade interface {
	// Transfer moves amount from sender to receiver and returns the COMPLETED
	// ledger entry. Typed failures: ErrValidation, ErrNotFound (unknown
	// party), ErrInsufficientFunds, ErrInsufficientReserve, ErrPersistence.
	Transfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal, note string) (*domain.Transaction, error)
}
