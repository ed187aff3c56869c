package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/metrics"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
	"github.com/dr9911/CBDC-sub000/internal/utils"
)

// SupplyService exposes the supply registry and runs the OTP-gated banknote
// flows. Banknote conversion moves value between the digital reserve and
// physical notes outstanding without changing total minted supply.
type SupplyService struct {
	supplyRepo  portsrepo.SupplyRepository
	accountRepo portsrepo.AccountRepository
	otpStore    portsrepo.OTPStore
	otpSender   portssvc.OTPSender
	cfg         *config.Config
	metrics     *metrics.Metrics
}

// NewSupplyService creates a new SupplyService.
func NewSupplyService(supplyRepo portsrepo.SupplyRepository, accountRepo portsrepo.AccountRepository, otpStore portsrepo.OTPStore, otpSender portssvc.OTPSender, cfg *config.Config, m *metrics.Metrics) *SupplyService {
	return &SupplyService{
		supplyRepo:  supplyRepo,
		accountRepo: accountRepo,
		otpStore:    otpStore,
		otpSender:   otpSender,
		cfg:         cfg,
		metrics:     m,
	}
}

var _ portssvc.SupplySvcFacade = (*SupplyService)(nil)

func (s *SupplyService) GetSupply(ctx context.Context) (*domain.SupplyRegistry, error) {
	supply, err := s.supplyRepo.GetSupply(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to read supply registry", slog.String("error", err.Error()))
		return nil, err
	}
	return supply, nil
}

// banknoteOTPKey scopes the passcode to the acting account so one operator's
// code cannot authorize another's conversion.
func banknoteOTPKey(actorID string) string {
	return "banknote:" + actorID
}

func (s *SupplyService) RequestBankNoteOTP(ctx context.Context, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireCentralBank(ctx, actorID); err != nil {
		return err
	}

	code, err := utils.GenerateNumericCode(s.cfg.OTPDigits)
	if err != nil {
		return fmt.Errorf("%w: failed to generate passcode: %s", apperrors.ErrInternal, err.Error())
	}
	hash, err := utils.HashOTPCode(code)
	if err != nil {
		return fmt.Errorf("%w: failed to hash passcode: %s", apperrors.ErrInternal, err.Error())
	}

	if err := s.otpStore.StoreCodeHash(ctx, banknoteOTPKey(actorID), hash, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("%w: failed to store passcode: %s", apperrors.ErrPersistence, err.Error())
	}

	if err := s.otpSender.SendOTP(ctx, actorID, code); err != nil {
		logger.Error("Failed to deliver banknote passcode", slog.String("error", err.Error()), slog.String("actor_id", actorID))
		return fmt.Errorf("%w: failed to deliver passcode: %s", apperrors.ErrInternal, err.Error())
	}

	logger.Info("Banknote passcode issued", slog.String("actor_id", actorID))
	return nil
}

func (s *SupplyService) IssueBankNotes(ctx context.Context, actorID string, amount decimal.Decimal, otpCode string, note string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateBankNoteOp(ctx, actorID, amount, otpCode); err != nil {
		return nil, err
	}

	supply, err := s.supplyRepo.GetSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read supply registry: %s", apperrors.ErrPersistence, err.Error())
	}
	if !supply.CanIssueBankNote(amount) {
		return nil, fmt.Errorf("%w: available reserve %s, requested %s", apperrors.ErrInsufficientReserve, supply.AvailableReserve().String(), amount.String())
	}

	txn, err := s.supplyRepo.IssueBankNotes(ctx, amount, actorID, note)
	if err != nil {
		logger.Error("Banknote issue failed", slog.String("error", err.Error()), slog.String("amount", amount.String()))
		return nil, err
	}

	s.metrics.IncrementTransferOutcome("completed", string(domain.TxnBankNoteIssue))
	logger.Info("Banknotes issued", slog.String("transaction_id", txn.TransactionID), slog.String("amount", amount.String()))
	return txn, nil
}

func (s *SupplyService) RedeemBankNotes(ctx context.Context, actorID string, amount decimal.Decimal, otpCode string, note string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateBankNoteOp(ctx, actorID, amount, otpCode); err != nil {
		return nil, err
	}

	supply, err := s.supplyRepo.GetSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read supply registry: %s", apperrors.ErrPersistence, err.Error())
	}
	if !supply.CanRedeemBankNote(amount) {
		return nil, fmt.Errorf("%w: cannot redeem %s, only %s banknotes outstanding", apperrors.ErrValidation, amount.String(), supply.BankNotesIssued.String())
	}

	txn, err := s.supplyRepo.RedeemBankNotes(ctx, amount, actorID, note)
	if err != nil {
		logger.Error("Banknote redemption failed", slog.String("error", err.Error()), slog.String("amount", amount.String()))
		return nil, err
	}

	s.metrics.IncrementTransferOutcome("completed", string(domain.TxnBankNoteRedeem))
	logger.Info("Banknotes redeemed", slog.String("transaction_id", txn.TransactionID), slog.String("amount", amount.String()))
	return txn, nil
}

// validateBankNoteOp runs the shared gate for both conversion directions:
// central-bank actor, positive amount, valid single-use passcode.
func (s *SupplyService) validateBankNoteOp(ctx context.Context, actorID string, amount decimal.Decimal, otpCode string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: banknote amount must be positive", apperrors.ErrValidation)
	}
	if err := s.requireCentralBank(ctx, actorID); err != nil {
		return err
	}

	result, err := verifyAndConsumeOTP(ctx, s.otpStore, banknoteOTPKey(actorID), otpCode, s.cfg.OTPMaxAttempts, s.cfg.OTPTTL)
	s.metrics.IncrementOTPVerification(string(result))
	return err
}

func (s *SupplyService) requireCentralBank(ctx context.Context, actorID string) error {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleCentralBank {
		return fmt.Errorf("%w: banknote operations require the central bank role", apperrors.ErrForbidden)
	}
	return nil
}
