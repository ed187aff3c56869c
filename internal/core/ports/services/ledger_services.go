package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// LedgerSvcFacade is the read side of the ledger: account lookup, balances
// and the per-account transaction feed.
type LedgerSvcFacade interface {
	CreateAccount(ctx context.Context, name string, role domain.AccountRole, openingBalance decimal.Decimal, actorID string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// DeactivateAccount soft-deletes an account. Balances and history are
	// retained; the account can no longer send or receive.
	DeactivateAccount(ctx context.Context, accountID string, actorID string) error

	// ListTransactions returns transactions touching the account, newest
	// first, with cursor pagination.
	ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
