package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// SupplyRepository reads and mutates the singleton supply registry row.
// Mutators lock the row, re-validate the registry invariant under the lock,
// and record the banknote movement as a ledger entry in the same database
// transaction. Only the transfer engine and minting workflow call mutators;
// the HTTP layer reaches the registry read-only.
type SupplyRepository interface {
	GetSupply(ctx context.Context) (*domain.SupplyRegistry, error)

	// IssueBankNotes converts reserve CBDC into outstanding banknotes.
	IssueBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string) (*domain.Transaction, error)

	// RedeemBankNotes retires outstanding banknotes back into the reserve.
	RedeemBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string) (*domain.Transaction, error)
}
