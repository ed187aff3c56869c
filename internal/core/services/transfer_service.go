package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/metrics"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
)

// TransferService is the transfer engine. It validates a movement against
// current state, then delegates the atomic apply to the ledger repository,
// which re-checks funding under row locks. Precondition failures here leave
// no ledger row at all.
type TransferService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	supplyRepo  portsrepo.SupplyRepository
	metrics     *metrics.Metrics
}

// NewTransferService creates a new TransferService.
func NewTransferService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, supplyRepo portsrepo.SupplyRepository, m *metrics.Metrics) *TransferService {
	return &TransferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		supplyRepo:  supplyRepo,
		metrics:     m,
	}
}

var _ portssvc.TransferSvcFacade = (*TransferService)(nil)

func (s *TransferService) Transfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal, note string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: sender and receiver must differ", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{senderID, receiverID})
	if err != nil {
		logger.Error("Failed to load transfer parties", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to load accounts: %s", apperrors.ErrPersistence, err.Error())
	}
	sender, ok := accounts[senderID]
	if !ok {
		return nil, fmt.Errorf("%w: sender account %s", apperrors.ErrNotFound, senderID)
	}
	receiver, ok := accounts[receiverID]
	if !ok {
		return nil, fmt.Errorf("%w: receiver account %s", apperrors.ErrNotFound, receiverID)
	}
	if !sender.IsActive || !receiver.IsActive {
		return nil, fmt.Errorf("%w: transfer parties must be active accounts", apperrors.ErrValidation)
	}

	movement := domain.ResolveMovement(sender.Role)
	txnType := domain.ResolveTransactionType(sender.Role, receiver.Role)

	// Fast-fail funding check. The repository re-checks under the row lock,
	// so this is advisory only; it keeps obviously doomed transfers from
	// taking locks.
	switch movement {
	case domain.UserFunded:
		if sender.Balance.LessThan(amount) {
			s.metrics.IncrementTransferOutcome("rejected", string(txnType))
			return nil, fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, sender.Balance.String(), amount.String())
		}
	case domain.ReserveFunded:
		supply, err := s.supplyRepo.GetSupply(ctx)
		if err != nil {
			logger.Error("Failed to read supply registry", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: failed to read supply registry: %s", apperrors.ErrPersistence, err.Error())
		}
		if !supply.CanDistribute(amount) {
			s.metrics.IncrementTransferOutcome("rejected", string(txnType))
			return nil, fmt.Errorf("%w: available reserve %s, requested %s", apperrors.ErrInsufficientReserve, supply.AvailableReserve().String(), amount.String())
		}
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Amount:        amount,
		Type:          txnType,
		Status:        domain.TxnPending,
		Note:          note,
		Timestamp:     now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     senderID,
			LastUpdatedAt: now,
			LastUpdatedBy: senderID,
		},
	}

	completed, err := s.ledgerRepo.CreateTransfer(ctx, txn, movement)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) || errors.Is(err, apperrors.ErrInsufficientReserve) {
			// Lost a race for the same funds. Precondition failure, no row.
			s.metrics.IncrementTransferOutcome("rejected", string(txnType))
			return nil, err
		}

		// Accepted but failed to commit. Record the attempt for audit.
		logger.Error("Transfer failed after acceptance", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		txn.Status = domain.TxnFailed
		txn.FailureReason = err.Error()
		if recordErr := s.ledgerRepo.RecordFailedTransaction(ctx, txn); recordErr != nil {
			logger.Error("Failed to record failed transaction", slog.String("error", recordErr.Error()), slog.String("transaction_id", txn.TransactionID))
		}
		s.metrics.IncrementTransferOutcome("failed", string(txnType))
		return nil, fmt.Errorf("%w: transfer did not commit: %s", apperrors.ErrPersistence, err.Error())
	}

	s.metrics.IncrementTransferOutcome("completed", string(txnType))
	s.metrics.ObserveTransferLatency(time.Since(start))
	logger.Info("Transfer completed",
		slog.String("transaction_id", completed.TransactionID),
		slog.String("type", string(txnType)),
		slog.String("amount", amount.String()),
	)
	return completed, nil
}
