package repositories

import (
	"context"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// AccountRepository defines persistence operations for ledger accounts.
// Balance mutation is deliberately absent here: balances change only through
// the atomic transfer operations on LedgerRepository.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccountsByRole(ctx context.Context, role domain.AccountRole) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
