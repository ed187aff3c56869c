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
	"github.com/dr9911/CBDC-sub000/internal/core/services"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
	"github.com/dr9911/CBDC-sub000/internal/utils"
)

type SupplyServiceTestSuite struct {
	suite.Suite
	mockSupplyRepo  *MockSupplyRepository
	mockAccountRepo *MockAccountRepository
	mockOTPStore    *MockOTPStore
	mockOTPSender   *MockOTPSender
	cfg             *config.Config
	service         *services.SupplyService

	governor domain.Account
	citizen  domain.Account

	testCodeHash string
}

func (suite *SupplyServiceTestSuite) SetupSuite() {
	hash, err := utils.HashOTPCode(testOTPCode)
	suite.Require().NoError(err)
	suite.testCodeHash = hash
}

func (suite *SupplyServiceTestSuite) SetupTest() {
	suite.mockSupplyRepo = new(MockSupplyRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockOTPStore = new(MockOTPStore)
	suite.mockOTPSender = new(MockOTPSender)
	suite.cfg = &config.Config{
		OTPTTL:         5 * time.Minute,
		OTPDigits:      6,
		OTPMaxAttempts: 3,
	}
	suite.service = services.NewSupplyService(suite.mockSupplyRepo, suite.mockAccountRepo, suite.mockOTPStore, suite.mockOTPSender, suite.cfg, nil)

	suite.governor = domain.Account{AccountID: uuid.NewString(), Name: "Governor", Role: domain.RoleCentralBank, IsActive: true}
	suite.citizen = domain.Account{AccountID: uuid.NewString(), Name: "Carol", Role: domain.RoleUser, IsActive: true}
}

func (suite *SupplyServiceTestSuite) expectAccount(account domain.Account) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
}

func (suite *SupplyServiceTestSuite) expectOTPPass() {
	key := "banknote:" + suite.governor.AccountID
	suite.mockOTPStore.On("GetCodeHash", mock.Anything, key).Return(suite.testCodeHash, nil).Once()
	suite.mockOTPStore.On("ConsumeCode", mock.Anything, key).Return(nil).Once()
}

func (suite *SupplyServiceTestSuite) TestGetSupply() {
	ctx := context.Background()
	registry := &domain.SupplyRegistry{
		TotalMinted:     decimal.NewFromInt(10000),
		Distributed:     decimal.NewFromInt(4000),
		BankNotesIssued: decimal.NewFromInt(1000),
	}

	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(registry, nil).Once()

	supply, err := suite.service.GetSupply(ctx)

	suite.Require().NoError(err)
	suite.True(supply.AvailableReserve().Equal(decimal.NewFromInt(5000)))
}

func (suite *SupplyServiceTestSuite) TestRequestBankNoteOTP_Success() {
	ctx := context.Background()

	suite.expectAccount(suite.governor)
	suite.mockOTPStore.On("StoreCodeHash", mock.Anything, "banknote:"+suite.governor.AccountID, mock.AnythingOfType("string"), suite.cfg.OTPTTL).Return(nil).Once()
	suite.mockOTPSender.On("SendOTP", mock.Anything, suite.governor.AccountID, mock.MatchedBy(func(code string) bool {
		return len(code) == suite.cfg.OTPDigits
	})).Return(nil).Once()

	err := suite.service.RequestBankNoteOTP(ctx, suite.governor.AccountID)

	suite.Require().NoError(err)
	suite.mockOTPStore.AssertExpectations(suite.T())
	suite.mockOTPSender.AssertExpectations(suite.T())
}

func (suite *SupplyServiceTestSuite) TestRequestBankNoteOTP_NonCentralBank() {
	ctx := context.Background()

	suite.expectAccount(suite.citizen)

	err := suite.service.RequestBankNoteOTP(ctx, suite.citizen.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockOTPStore.AssertNotCalled(suite.T(), "StoreCodeHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplyServiceTestSuite) TestIssueBankNotes_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(1000)

	suite.expectAccount(suite.governor)
	suite.expectOTPPass()
	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(&domain.SupplyRegistry{
		TotalMinted: decimal.NewFromInt(10000),
		Distributed: decimal.NewFromInt(4000),
	}, nil).Once()
	suite.mockSupplyRepo.On("IssueBankNotes", mock.Anything, amount, suite.governor.AccountID, "branch cash order").Return(&domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          domain.TxnBankNoteIssue,
		Status:        domain.TxnCompleted,
		Amount:        amount,
	}, nil).Once()

	txn, err := suite.service.IssueBankNotes(ctx, suite.governor.AccountID, amount, testOTPCode, "branch cash order")

	suite.Require().NoError(err)
	suite.Equal(domain.TxnBankNoteIssue, txn.Type)
	suite.mockSupplyRepo.AssertExpectations(suite.T())
}

func (suite *SupplyServiceTestSuite) TestIssueBankNotes_InsufficientReserve() {
	ctx := context.Background()

	suite.expectAccount(suite.governor)
	suite.expectOTPPass()
	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(&domain.SupplyRegistry{
		TotalMinted: decimal.NewFromInt(10000),
		Distributed: decimal.NewFromInt(9800),
	}, nil).Once()

	_, err := suite.service.IssueBankNotes(ctx, suite.governor.AccountID, decimal.NewFromInt(1000), testOTPCode, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientReserve)
	suite.mockSupplyRepo.AssertNotCalled(suite.T(), "IssueBankNotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplyServiceTestSuite) TestIssueBankNotes_WrongOTP() {
	ctx := context.Background()
	key := "banknote:" + suite.governor.AccountID

	suite.expectAccount(suite.governor)
	suite.mockOTPStore.On("GetCodeHash", mock.Anything, key).Return(suite.testCodeHash, nil).Once()
	suite.mockOTPStore.On("IncrementAttempts", mock.Anything, key, suite.cfg.OTPTTL).Return(1, nil).Once()

	_, err := suite.service.IssueBankNotes(ctx, suite.governor.AccountID, decimal.NewFromInt(100), "000000", "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAuthorization)
	suite.mockSupplyRepo.AssertNotCalled(suite.T(), "GetSupply", mock.Anything)
}

func (suite *SupplyServiceTestSuite) TestRedeemBankNotes_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)

	suite.expectAccount(suite.governor)
	suite.expectOTPPass()
	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(&domain.SupplyRegistry{
		TotalMinted:     decimal.NewFromInt(10000),
		Distributed:     decimal.NewFromInt(4000),
		BankNotesIssued: decimal.NewFromInt(1000),
	}, nil).Once()
	suite.mockSupplyRepo.On("RedeemBankNotes", mock.Anything, amount, suite.governor.AccountID, "damaged notes").Return(&domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          domain.TxnBankNoteRedeem,
		Status:        domain.TxnCompleted,
		Amount:        amount,
	}, nil).Once()

	txn, err := suite.service.RedeemBankNotes(ctx, suite.governor.AccountID, amount, testOTPCode, "damaged notes")

	suite.Require().NoError(err)
	suite.Equal(domain.TxnBankNoteRedeem, txn.Type)
}

func (suite *SupplyServiceTestSuite) TestRedeemBankNotes_MoreThanOutstanding() {
	ctx := context.Background()

	suite.expectAccount(suite.governor)
	suite.expectOTPPass()
	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(&domain.SupplyRegistry{
		TotalMinted:     decimal.NewFromInt(10000),
		BankNotesIssued: decimal.NewFromInt(200),
	}, nil).Once()

	_, err := suite.service.RedeemBankNotes(ctx, suite.governor.AccountID, decimal.NewFromInt(500), testOTPCode, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSupplyRepo.AssertNotCalled(suite.T(), "RedeemBankNotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplyServiceTestSuite) TestBankNoteOp_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.IssueBankNotes(ctx, suite.governor.AccountID, decimal.Zero, testOTPCode, "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RedeemBankNotes(ctx, suite.governor.AccountID, decimal.NewFromInt(-1), testOTPCode, "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func TestSupplyService(t *testing.T) {
	suite.Run(t, new(SupplyServiceTestSuite))
}
