package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	"github.com/dr9911/CBDC-sub000/internal/core/services"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
	"github.com/dr9911/CBDC-sub000/internal/utils"
)

const testOTPCode = "482913"

type MintingServiceTestSuite struct {
	suite.Suite
	mockMintRepo    *MockMintRepository
	mockAccountRepo *MockAccountRepository
	mockOTPStore    *MockOTPStore
	mockOTPSender   *MockOTPSender
	mockNotifier    *MockNotifier
	cfg             *config.Config
	service         *services.MintingService

	governor domain.Account
	deputy   domain.Account
	citizen  domain.Account

	testCodeHash string
}

func (suite *MintingServiceTestSuite) SetupSuite() {
	// bcrypt is slow; hash the fixture code once for the whole suite
	hash, err := utils.HashOTPCode(testOTPCode)
	suite.Require().NoError(err)
	suite.testCodeHash = hash
}

func (suite *MintingServiceTestSuite) SetupTest() {
	suite.mockMintRepo = new(MockMintRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockOTPStore = new(MockOTPStore)
	suite.mockOTPSender = new(MockOTPSender)
	suite.mockNotifier = new(MockNotifier)
	suite.cfg = &config.Config{
		MintRequiredApprovals: 3,
		PendingApprovalTTL:    72 * time.Hour,
		OTPTTL:                5 * time.Minute,
		OTPDigits:             6,
		OTPMaxAttempts:        3,
	}
	suite.service = services.NewMintingService(suite.mockMintRepo, suite.mockAccountRepo, suite.mockOTPStore, suite.mockOTPSender, suite.mockNotifier, suite.cfg, nil)

	suite.governor = domain.Account{AccountID: uuid.NewString(), Name: "Governor", Role: domain.RoleCentralBank, IsActive: true}
	suite.deputy = domain.Account{AccountID: uuid.NewString(), Name: "Deputy", Role: domain.RoleCentralBank, IsActive: true}
	suite.citizen = domain.Account{AccountID: uuid.NewString(), Name: "Carol", Role: domain.RoleUser, IsActive: true}
}

func (suite *MintingServiceTestSuite) expectAccount(account domain.Account) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
}

func (suite *MintingServiceTestSuite) pendingRequest() *domain.MintRequest {
	return &domain.MintRequest{
		RequestID:         uuid.NewString(),
		RequestedBy:       suite.governor.AccountID,
		Amount:            decimal.NewFromInt(100000),
		Purpose:           "Quarterly liquidity program",
		Status:            domain.MintPendingApproval,
		RequiredApprovals: 3,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now().Add(-time.Hour),
			LastUpdatedAt: time.Now().Add(-time.Hour),
		},
	}
}

func (suite *MintingServiceTestSuite) TestRequestMint_Success() {
	ctx := context.Background()

	suite.expectAccount(suite.governor)
	suite.mockMintRepo.On("SaveMintRequest", mock.Anything, mock.MatchedBy(func(req domain.MintRequest) bool {
		return req.Status == domain.MintDraft &&
			req.RequestedBy == suite.governor.AccountID &&
			req.RequiredApprovals == 3
	})).Return(nil).Once()
	suite.mockOTPStore.On("StoreCodeHash", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), suite.cfg.OTPTTL).Return(nil).Once()
	suite.mockOTPSender.On("SendOTP", mock.Anything, suite.governor.AccountID, mock.MatchedBy(func(code string) bool {
		return len(code) == suite.cfg.OTPDigits
	})).Return(nil).Once()
	suite.mockMintRepo.On("UpdateMintStatus", mock.Anything, mock.AnythingOfType("string"), domain.MintDraft, domain.MintAwaitingOTP, suite.governor.AccountID, "", mock.AnythingOfType("time.Time")).Return(nil).Once()

	req, err := suite.service.RequestMint(ctx, suite.governor.AccountID, decimal.NewFromInt(100000), "Quarterly liquidity program", time.Now())

	suite.Require().NoError(err)
	suite.Require().NotNil(req)
	suite.Equal(domain.MintAwaitingOTP, req.Status)
	suite.mockMintRepo.AssertExpectations(suite.T())
	suite.mockOTPSender.AssertExpectations(suite.T())
}

func (suite *MintingServiceTestSuite) TestRequestMint_NonCentralBankForbidden() {
	ctx := context.Background()

	suite.expectAccount(suite.citizen)

	_, err := suite.service.RequestMint(ctx, suite.citizen.AccountID, decimal.NewFromInt(100), "should not work", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockMintRepo.AssertNotCalled(suite.T(), "SaveMintRequest", mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestRequestMint_InvalidAmount() {
	ctx := context.Background()

	_, err := suite.service.RequestMint(ctx, suite.governor.AccountID, decimal.Zero, "zero", time.Now())
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RequestMint(ctx, suite.governor.AccountID, decimal.NewFromInt(100), "   ", time.Now())
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MintingServiceTestSuite) TestRequestMint_DeliveryFailureKeepsDraft() {
	ctx := context.Background()

	suite.expectAccount(suite.governor)
	suite.mockMintRepo.On("SaveMintRequest", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockOTPStore.On("StoreCodeHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockOTPSender.On("SendOTP", mock.Anything, suite.governor.AccountID, mock.Anything).Return(context.DeadlineExceeded).Once()

	req, err := suite.service.RequestMint(ctx, suite.governor.AccountID, decimal.NewFromInt(500), "delivery down", time.Now())

	suite.Require().NoError(err)
	suite.Equal(domain.MintDraft, req.Status)
	suite.mockMintRepo.AssertNotCalled(suite.T(), "UpdateMintStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestSubmitOTP_Success() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintAwaitingOTP

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockOTPStore.On("GetCodeHash", mock.Anything, "mint:"+req.RequestID).Return(suite.testCodeHash, nil).Once()
	suite.mockOTPStore.On("ConsumeCode", mock.Anything, "mint:"+req.RequestID).Return(nil).Once()
	suite.mockMintRepo.On("UpdateMintStatus", mock.Anything, req.RequestID, domain.MintAwaitingOTP, domain.MintPendingApproval, suite.governor.AccountID, "", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("ListAccountsByRole", mock.Anything, domain.RoleCentralBank).
		Return([]domain.Account{suite.governor, suite.deputy}, nil).Once()
	suite.mockNotifier.On("NotifyMintEvent", mock.Anything, domain.NotifyMintPending, req.RequestID, []string{suite.deputy.AccountID}).Return().Once()

	updated, err := suite.service.SubmitOTP(ctx, req.RequestID, suite.governor.AccountID, testOTPCode)

	suite.Require().NoError(err)
	suite.Equal(domain.MintPendingApproval, updated.Status)
	suite.mockOTPStore.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MintingServiceTestSuite) TestSubmitOTP_WrongCodeRetryable() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintAwaitingOTP

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Twice()
	suite.mockOTPStore.On("GetCodeHash", mock.Anything, "mint:"+req.RequestID).Return(suite.testCodeHash, nil).Twice()
	suite.mockOTPStore.On("IncrementAttempts", mock.Anything, "mint:"+req.RequestID, suite.cfg.OTPTTL).Return(1, nil).Once()
	suite.mockOTPStore.On("IncrementAttempts", mock.Anything, "mint:"+req.RequestID, suite.cfg.OTPTTL).Return(2, nil).Once()

	_, err := suite.service.SubmitOTP(ctx, req.RequestID, suite.governor.AccountID, "000000")
	suite.ErrorIs(err, apperrors.ErrAuthorization)

	_, err = suite.service.SubmitOTP(ctx, req.RequestID, suite.governor.AccountID, "111111")
	suite.ErrorIs(err, apperrors.ErrAuthorization)

	// Code survives both failures, so a third correct submission could pass
	suite.mockOTPStore.AssertNotCalled(suite.T(), "ConsumeCode", mock.Anything, mock.Anything)
	suite.mockMintRepo.AssertNotCalled(suite.T(), "UpdateMintStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestSubmitOTP_AttemptsExhaustedBurnsCode() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintAwaitingOTP

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockOTPStore.On("GetCodeHash", mock.Anything, "mint:"+req.RequestID).Return(suite.testCodeHash, nil).Once()
	suite.mockOTPStore.On("IncrementAttempts", mock.Anything, "mint:"+req.RequestID, suite.cfg.OTPTTL).Return(3, nil).Once()
	suite.mockOTPStore.On("ConsumeCode", mock.Anything, "mint:"+req.RequestID).Return(nil).Once()

	_, err := suite.service.SubmitOTP(ctx, req.RequestID, suite.governor.AccountID, "999999")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthorization)
	suite.mockOTPStore.AssertExpectations(suite.T())
}

func (suite *MintingServiceTestSuite) TestSubmitOTP_ExpiredCode() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintAwaitingOTP

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockOTPStore.On("GetCodeHash", mock.Anything, "mint:"+req.RequestID).Return("", portsrepo.ErrCodeNotFound).Once()

	_, err := suite.service.SubmitOTP(ctx, req.RequestID, suite.governor.AccountID, testOTPCode)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthorization)
}

func (suite *MintingServiceTestSuite) TestSubmitOTP_WrongRequester() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintAwaitingOTP

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.SubmitOTP(ctx, req.RequestID, suite.deputy.AccountID, testOTPCode)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockOTPStore.AssertNotCalled(suite.T(), "GetCodeHash", mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestSubmitOTP_WrongStatus() {
	ctx := context.Background()
	req := suite.pendingRequest() // already PENDING_APPROVAL

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.SubmitOTP(ctx, req.RequestID, suite.governor.AccountID, testOTPCode)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *MintingServiceTestSuite) TestApproveMint_RecordsApproval() {
	ctx := context.Background()
	req := suite.pendingRequest()

	approved := *req
	approved.Approvals = []string{suite.deputy.AccountID}

	suite.expectAccount(suite.deputy)
	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockMintRepo.On("RecordApproval", mock.Anything, req.RequestID, suite.deputy.AccountID, mock.AnythingOfType("time.Time")).Return(&approved, nil).Once()

	updated, err := suite.service.ApproveMint(ctx, req.RequestID, suite.deputy.AccountID)

	suite.Require().NoError(err)
	suite.Equal(domain.MintPendingApproval, updated.Status)
	suite.Len(updated.Approvals, 1)
	// Quorum not reached, nobody is notified yet
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyMintEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestApproveMint_QuorumMintsAndNotifies() {
	ctx := context.Background()
	req := suite.pendingRequest()

	approved := *req
	approved.Status = domain.MintApproved
	approved.Approvals = []string{"a1", "a2", suite.deputy.AccountID}

	suite.expectAccount(suite.deputy)
	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockMintRepo.On("RecordApproval", mock.Anything, req.RequestID, suite.deputy.AccountID, mock.AnythingOfType("time.Time")).Return(&approved, nil).Once()
	suite.mockNotifier.On("NotifyMintEvent", mock.Anything, domain.NotifyMintApproved, req.RequestID, []string{suite.governor.AccountID}).Return().Once()

	updated, err := suite.service.ApproveMint(ctx, req.RequestID, suite.deputy.AccountID)

	suite.Require().NoError(err)
	suite.Equal(domain.MintApproved, updated.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MintingServiceTestSuite) TestApproveMint_SelfApprovalRejected() {
	ctx := context.Background()
	req := suite.pendingRequest()

	suite.expectAccount(suite.governor)
	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.ApproveMint(ctx, req.RequestID, suite.governor.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthorization)
	suite.mockMintRepo.AssertNotCalled(suite.T(), "RecordApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestApproveMint_TerminalRequestConflicts() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintApproved

	suite.expectAccount(suite.deputy)
	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.ApproveMint(ctx, req.RequestID, suite.deputy.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *MintingServiceTestSuite) TestApproveMint_ExpiredApprovalWindow() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.LastUpdatedAt = time.Now().Add(-73 * time.Hour)

	suite.expectAccount(suite.deputy)
	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.ApproveMint(ctx, req.RequestID, suite.deputy.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockMintRepo.AssertNotCalled(suite.T(), "RecordApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MintingServiceTestSuite) TestRejectMint_Success() {
	ctx := context.Background()
	req := suite.pendingRequest()

	suite.expectAccount(suite.deputy)
	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockMintRepo.On("UpdateMintStatus", mock.Anything, req.RequestID, domain.MintPendingApproval, domain.MintRejected, suite.deputy.AccountID, "amount not justified", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockNotifier.On("NotifyMintEvent", mock.Anything, domain.NotifyMintRejected, req.RequestID, []string{suite.governor.AccountID}).Return().Once()

	updated, err := suite.service.RejectMint(ctx, req.RequestID, suite.deputy.AccountID, "amount not justified")

	suite.Require().NoError(err)
	suite.Equal(domain.MintRejected, updated.Status)
	suite.Equal(suite.deputy.AccountID, updated.ResolvedBy)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MintingServiceTestSuite) TestRejectMint_ReasonRequired() {
	ctx := context.Background()
	req := suite.pendingRequest()

	suite.expectAccount(suite.deputy)

	_, err := suite.service.RejectMint(ctx, req.RequestID, suite.deputy.AccountID, "  ")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MintingServiceTestSuite) TestCancelMint_AwaitingOTPBackToDraft() {
	ctx := context.Background()
	req := suite.pendingRequest()
	req.Status = domain.MintAwaitingOTP

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockMintRepo.On("UpdateMintStatus", mock.Anything, req.RequestID, domain.MintAwaitingOTP, domain.MintDraft, suite.governor.AccountID, "typo in amount", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockOTPStore.On("ConsumeCode", mock.Anything, "mint:"+req.RequestID).Return(nil).Once()

	updated, err := suite.service.CancelMint(ctx, req.RequestID, suite.governor.AccountID, "typo in amount")

	suite.Require().NoError(err)
	suite.Equal(domain.MintDraft, updated.Status)
	suite.mockOTPStore.AssertExpectations(suite.T())
}

func (suite *MintingServiceTestSuite) TestCancelMint_PendingApprovalBecomesRejection() {
	ctx := context.Background()
	req := suite.pendingRequest()

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()
	suite.mockMintRepo.On("UpdateMintStatus", mock.Anything, req.RequestID, domain.MintPendingApproval, domain.MintRejected, suite.governor.AccountID, "withdrawn", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("ListAccountsByRole", mock.Anything, domain.RoleCentralBank).
		Return([]domain.Account{suite.governor, suite.deputy}, nil).Once()
	suite.mockNotifier.On("NotifyMintEvent", mock.Anything, domain.NotifyMintRejected, req.RequestID, []string{suite.deputy.AccountID}).Return().Once()

	updated, err := suite.service.CancelMint(ctx, req.RequestID, suite.governor.AccountID, "withdrawn")

	suite.Require().NoError(err)
	suite.Equal(domain.MintRejected, updated.Status)
	suite.Equal(suite.governor.AccountID, updated.ResolvedBy)
}

func (suite *MintingServiceTestSuite) TestCancelMint_NonRequesterForbidden() {
	ctx := context.Background()
	req := suite.pendingRequest()

	suite.mockMintRepo.On("FindMintRequestByID", mock.Anything, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.CancelMint(ctx, req.RequestID, suite.deputy.AccountID, "not mine")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestMintingService(t *testing.T) {
	suite.Run(t, new(MintingServiceTestSuite))
}
