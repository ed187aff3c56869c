package repositories

import (
	"context"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// LedgerRepository executes value movements and reads the immutable ledger.
//
// CreateTransfer applies both sides of a movement and inserts the COMPLETED
// transaction row as one database transaction. It locks the affected account
// rows (and the supply registry row for reserve-funded movements) and
// re-checks funding under the lock, so two concurrent debits of the same
// sender serialize and the loser fails with ErrInsufficientFunds or
// ErrInsufficientReserve rather than driving a balance negative.
type LedgerRepository interface {
	CreateTransfer(ctx context.Context, txn domain.Transaction, movement domain.MovementClass) (*domain.Transaction, error)

	// RecordFailedTransaction appends a FAILED ledger entry carrying the
	// failure reason. Used when an accepted transfer cannot commit, so the
	// attempt is auditable rather than silently dropped.
	RecordFailedTransaction(ctx context.Context, txn domain.Transaction) error

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
