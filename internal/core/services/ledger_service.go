package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
)

// LedgerService exposes account management and the read side of the ledger.
type LedgerService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository) *LedgerService {
	return &LedgerService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

func (s *LedgerService) CreateAccount(ctx context.Context, name string, role domain.AccountRole, openingBalance decimal.Decimal, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, role)
	}
	if openingBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		Role:      role,
		Balance:   openingBalance,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("role", string(role)))
	return &account, nil
}

func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *LedgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *LedgerService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ListTransactions returns the account's transaction feed, newest first.
// The account must exist; an unknown ID is ErrNotFound, not an empty feed.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txns, next, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, next, nil
}
