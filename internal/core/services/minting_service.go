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
	"github.com/dr9911/CBDC-sub000/internal/metrics"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
	"github.com/dr9911/CBDC-sub000/internal/utils"
)

// MintingService drives the mint request state machine:
// DRAFT -> AWAITING_OTP -> PENDING_APPROVAL -> APPROVED | REJECTED.
// The supply increase happens inside MintRepository.RecordApproval, in the
// same database transaction as the status flip, so it fires exactly once no
// matter how approvals interleave.
type MintingService struct {
	mintRepo    portsrepo.MintRepository
	accountRepo portsrepo.AccountRepository
	otpStore    portsrepo.OTPStore
	otpSender   portssvc.OTPSender
	notifier    portssvc.NotifierSvcFacade
	cfg         *config.Config
	metrics     *metrics.Metrics
}

// NewMintingService creates a new MintingService.
func NewMintingService(mintRepo portsrepo.MintRepository, accountRepo portsrepo.AccountRepository, otpStore portsrepo.OTPStore, otpSender portssvc.OTPSender, notifier portssvc.NotifierSvcFacade, cfg *config.Config, m *metrics.Metrics) *MintingService {
	return &MintingService{
		mintRepo:    mintRepo,
		accountRepo: accountRepo,
		otpStore:    otpStore,
		otpSender:   otpSender,
		notifier:    notifier,
		cfg:         cfg,
		metrics:     m,
	}
}

var _ portssvc.MintingSvcFacade = (*MintingService)(nil)

func mintOTPKey(requestID string) string {
	return "mint:" + requestID
}

func (s *MintingService) GetMintRequest(ctx context.Context, requestID string) (*domain.MintRequest, error) {
	req, err := s.mintRepo.FindMintRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find mint request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return nil, err
	}
	req.Expired = req.PendingExpired(s.cfg.PendingApprovalTTL, time.Now())
	return req, nil
}

func (s *MintingService) ListMintRequests(ctx context.Context, status domain.MintStatus, limit int) ([]domain.MintRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reqs, err := s.mintRepo.ListMintRequestsByStatus(ctx, status, limit)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list mint requests", slog.String("error", err.Error()), slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to list mint requests: %w", err)
	}
	if reqs == nil {
		reqs = []domain.MintRequest{}
	}
	now := time.Now()
	for i := range reqs {
		reqs[i].Expired = reqs[i].PendingExpired(s.cfg.PendingApprovalTTL, now)
	}
	return reqs, nil
}

func (s *MintingService) RequestMint(ctx context.Context, requesterID string, amount decimal.Decimal, purpose string, documentDate time.Time) (*domain.MintRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: mint amount must be positive", apperrors.ErrValidation)
	}
	if strings.TrimSpace(purpose) == "" {
		return nil, fmt.Errorf("%w: mint purpose is required", apperrors.ErrValidation)
	}
	if err := s.requireCentralBank(ctx, requesterID); err != nil {
		return nil, err
	}

	now := time.Now()
	req := domain.MintRequest{
		RequestID:         uuid.NewString(),
		RequestedBy:       requesterID,
		Amount:            amount,
		Purpose:           purpose,
		DocumentDate:      documentDate,
		Status:            domain.MintDraft,
		RequiredApprovals: s.cfg.MintRequiredApprovals,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}

	if err := s.mintRepo.SaveMintRequest(ctx, req); err != nil {
		logger.Error("Failed to save mint request", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.issueOTP(ctx, &req, requesterID); err != nil {
		// The draft survives; the requester can retry via SendMintOTP.
		logger.Warn("Mint request created but passcode delivery failed", slog.String("request_id", req.RequestID), slog.String("error", err.Error()))
		return &req, nil
	}

	s.metrics.IncrementMintEvent("requested")
	logger.Info("Mint request created", slog.String("request_id", req.RequestID), slog.String("amount", amount.String()))
	return &req, nil
}

// SendMintOTP (re)issues the passcode for a DRAFT request, moving it to
// AWAITING_OTP. Also the recovery path when delivery failed at creation or
// the previous code expired unused.
func (s *MintingService) SendMintOTP(ctx context.Context, requestID string, requesterID string) (*domain.MintRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	req, err := s.mintRepo.FindMintRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedBy != requesterID {
		return nil, fmt.Errorf("%w: only the requester may drive the passcode step", apperrors.ErrForbidden)
	}
	if req.Status != domain.MintDraft && req.Status != domain.MintAwaitingOTP {
		return nil, fmt.Errorf("%w: request %s is %s", apperrors.ErrConflict, requestID, req.Status)
	}

	if err := s.issueOTP(ctx, req, requesterID); err != nil {
		logger.Error("Failed to issue mint passcode", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}
	return req, nil
}

// issueOTP stores a fresh code hash and advances a DRAFT request to
// AWAITING_OTP once delivery is accepted.
func (s *MintingService) issueOTP(ctx context.Context, req *domain.MintRequest, requesterID string) error {
	code, err := utils.GenerateNumericCode(s.cfg.OTPDigits)
	if err != nil {
		return fmt.Errorf("%w: failed to generate passcode: %s", apperrors.ErrInternal, err.Error())
	}
	hash, err := utils.HashOTPCode(code)
	if err != nil {
		return fmt.Errorf("%w: failed to hash passcode: %s", apperrors.ErrInternal, err.Error())
	}
	if err := s.otpStore.StoreCodeHash(ctx, mintOTPKey(req.RequestID), hash, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("%w: failed to store passcode: %s", apperrors.ErrPersistence, err.Error())
	}
	if err := s.otpSender.SendOTP(ctx, requesterID, code); err != nil {
		return fmt.Errorf("%w: failed to deliver passcode: %s", apperrors.ErrInternal, err.Error())
	}

	if req.Status == domain.MintDraft {
		now := time.Now()
		if err := s.mintRepo.UpdateMintStatus(ctx, req.RequestID, domain.MintDraft, domain.MintAwaitingOTP, requesterID, "", now); err != nil {
			return err
		}
		req.Status = domain.MintAwaitingOTP
		req.LastUpdatedAt = now
		req.LastUpdatedBy = requesterID
	}
	return nil
}

func (s *MintingService) SubmitOTP(ctx context.Context, requestID string, requesterID string, code string) (*domain.MintRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	req, err := s.mintRepo.FindMintRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedBy != requesterID {
		return nil, fmt.Errorf("%w: only the requester may submit the passcode", apperrors.ErrForbidden)
	}
	if req.Status != domain.MintAwaitingOTP {
		return nil, fmt.Errorf("%w: request %s is %s, expected %s", apperrors.ErrConflict, requestID, req.Status, domain.MintAwaitingOTP)
	}

	result, err := verifyAndConsumeOTP(ctx, s.otpStore, mintOTPKey(requestID), code, s.cfg.OTPMaxAttempts, s.cfg.OTPTTL)
	s.metrics.IncrementOTPVerification(string(result))
	if err != nil {
		logger.Warn("Mint passcode verification failed", slog.String("request_id", requestID), slog.String("result", string(result)))
		return nil, err
	}

	now := time.Now()
	if err := s.mintRepo.UpdateMintStatus(ctx, requestID, domain.MintAwaitingOTP, domain.MintPendingApproval, requesterID, "", now); err != nil {
		return nil, err
	}
	req.Status = domain.MintPendingApproval
	req.LastUpdatedAt = now
	req.LastUpdatedBy = requesterID

	s.metrics.IncrementMintEvent("otp_verified")
	s.notifyCentralBankPeers(ctx, domain.NotifyMintPending, req)

	logger.Info("Mint request pending approval", slog.String("request_id", requestID))
	return req, nil
}

func (s *MintingService) ApproveMint(ctx context.Context, requestID string, approverID string) (*domain.MintRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireCentralBank(ctx, approverID); err != nil {
		return nil, err
	}

	req, err := s.mintRepo.FindMintRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedBy == approverID {
		return nil, fmt.Errorf("%w: requester cannot approve their own mint request", apperrors.ErrAuthorization)
	}
	if req.Status != domain.MintPendingApproval {
		return nil, fmt.Errorf("%w: request %s is %s, expected %s", apperrors.ErrConflict, requestID, req.Status, domain.MintPendingApproval)
	}
	if req.PendingExpired(s.cfg.PendingApprovalTTL, time.Now()) {
		return nil, fmt.Errorf("%w: approval window for request %s has expired", apperrors.ErrConflict, requestID)
	}

	updated, err := s.mintRepo.RecordApproval(ctx, requestID, approverID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to record approval", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return nil, err
	}

	if updated.Status == domain.MintApproved {
		s.metrics.IncrementMintEvent("approved")
		s.notifier.NotifyMintEvent(ctx, domain.NotifyMintApproved, requestID, []string{updated.RequestedBy})
		logger.Info("Mint request approved, supply increased",
			slog.String("request_id", requestID),
			slog.String("amount", updated.Amount.String()),
		)
	} else {
		logger.Info("Mint approval recorded",
			slog.String("request_id", requestID),
			slog.Int("approvals", len(updated.Approvals)),
			slog.Int("required", updated.RequiredApprovals),
		)
	}
	return updated, nil
}

func (s *MintingService) RejectMint(ctx context.Context, requestID string, approverID string, reason string) (*domain.MintRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireCentralBank(ctx, approverID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	req, err := s.mintRepo.FindMintRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedBy == approverID {
		return nil, fmt.Errorf("%w: requester cannot adjudicate their own mint request, cancel instead", apperrors.ErrAuthorization)
	}
	if req.Status != domain.MintPendingApproval {
		return nil, fmt.Errorf("%w: request %s is %s, expected %s", apperrors.ErrConflict, requestID, req.Status, domain.MintPendingApproval)
	}

	now := time.Now()
	if err := s.mintRepo.UpdateMintStatus(ctx, requestID, domain.MintPendingApproval, domain.MintRejected, approverID, reason, now); err != nil {
		return nil, err
	}
	req.Status = domain.MintRejected
	req.ResolvedBy = approverID
	req.ResolutionReason = reason
	req.LastUpdatedAt = now
	req.LastUpdatedBy = approverID

	s.metrics.IncrementMintEvent("rejected")
	s.notifier.NotifyMintEvent(ctx, domain.NotifyMintRejected, requestID, []string{req.RequestedBy})

	logger.Info("Mint request rejected", slog.String("request_id", requestID), slog.String("rejected_by", approverID))
	return req, nil
}

func (s *MintingService) CancelMint(ctx context.Context, requestID string, requesterID string, reason string) (*domain.MintRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	req, err := s.mintRepo.FindMintRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedBy != requesterID {
		return nil, fmt.Errorf("%w: only the requester may cancel a mint request", apperrors.ErrForbidden)
	}

	now := time.Now()
	switch req.Status {
	case domain.MintAwaitingOTP:
		// Back to draft. Burn any live passcode so it cannot be consumed later.
		if err := s.mintRepo.UpdateMintStatus(ctx, requestID, domain.MintAwaitingOTP, domain.MintDraft, requesterID, reason, now); err != nil {
			return nil, err
		}
		_ = s.otpStore.ConsumeCode(ctx, mintOTPKey(requestID))
		req.Status = domain.MintDraft
	case domain.MintPendingApproval:
		// Recorded as a rejection attributed to the requester, so the audit
		// trail shows who withdrew it.
		if err := s.mintRepo.UpdateMintStatus(ctx, requestID, domain.MintPendingApproval, domain.MintRejected, requesterID, reason, now); err != nil {
			return nil, err
		}
		req.Status = domain.MintRejected
		req.ResolvedBy = requesterID
		req.ResolutionReason = reason
		s.notifyCentralBankPeers(ctx, domain.NotifyMintRejected, req)
	case domain.MintDraft:
		return nil, fmt.Errorf("%w: request %s is already a draft", apperrors.ErrConflict, requestID)
	default:
		return nil, fmt.Errorf("%w: request %s is %s and cannot be cancelled", apperrors.ErrConflict, requestID, req.Status)
	}

	req.LastUpdatedAt = now
	req.LastUpdatedBy = requesterID

	s.metrics.IncrementMintEvent("cancelled")
	logger.Info("Mint request cancelled", slog.String("request_id", requestID), slog.String("to_status", string(req.Status)))
	return req, nil
}

// notifyCentralBankPeers fans an event out to every central-bank account
// except the requester. Listing failures only cost notifications, never the
// workflow step itself.
func (s *MintingService) notifyCentralBankPeers(ctx context.Context, notifType domain.NotificationType, req *domain.MintRequest) {
	accounts, err := s.accountRepo.ListAccountsByRole(ctx, domain.RoleCentralBank)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to list central bank accounts for fan-out", slog.String("error", err.Error()))
		return
	}
	recipients := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a.AccountID != req.RequestedBy && a.IsActive {
			recipients = append(recipients, a.AccountID)
		}
	}
	if len(recipients) > 0 {
		s.notifier.NotifyMintEvent(ctx, notifType, req.RequestID, recipients)
	}
}

func (s *MintingService) requireCentralBank(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Role != domain.RoleCentralBank {
		return fmt.Errorf("%w: minting operations require the central bank role", apperrors.ErrForbidden)
	}
	return nil
}
