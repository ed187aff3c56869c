package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	"github.com/dr9911/CBDC-sub000/internal/core/services"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	mockSupplyRepo  *MockSupplyRepository
	service         *services.TransferService

	user        domain.Account
	merchant    domain.Account
	commercial  domain.Account
	centralBank domain.Account
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockSupplyRepo = new(MockSupplyRepository)
	suite.service = services.NewTransferService(suite.mockAccountRepo, suite.mockLedgerRepo, suite.mockSupplyRepo, nil)

	suite.user = domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Alice",
		Role:      domain.RoleUser,
		Balance:   decimal.NewFromInt(1000),
		IsActive:  true,
	}
	suite.merchant = domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Bob",
		Role:      domain.RoleUser,
		Balance:   decimal.NewFromInt(50),
		IsActive:  true,
	}
	suite.commercial = domain.Account{
		AccountID: uuid.NewString(),
		Name:      "First Commercial",
		Role:      domain.RoleCommercialBank,
		Balance:   decimal.NewFromInt(5000),
		IsActive:  true,
	}
	suite.centralBank = domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Central Bank",
		Role:      domain.RoleCentralBank,
		Balance:   decimal.Zero,
		IsActive:  true,
	}
}

func (suite *TransferServiceTestSuite) expectAccounts(accounts ...domain.Account) {
	ids := make([]string, 0, len(accounts))
	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.AccountID)
		accountsMap[a.AccountID] = a
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, ids).Return(accountsMap, nil).Once()
}

func (suite *TransferServiceTestSuite) TestTransfer_UserToUser_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(300)

	suite.expectAccounts(suite.user, suite.merchant)
	suite.mockLedgerRepo.On("CreateTransfer", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.SenderID == suite.user.AccountID &&
			txn.ReceiverID == suite.merchant.AccountID &&
			txn.Amount.Equal(amount) &&
			txn.Type == domain.TxnUserToUser
	}), domain.UserFunded).Return(&domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      suite.user.AccountID,
		ReceiverID:    suite.merchant.AccountID,
		Amount:        amount,
		Type:          domain.TxnUserToUser,
		Status:        domain.TxnCompleted,
	}, nil).Once()

	txn, err := suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, amount, "rent")

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.TxnCompleted, txn.Status)
	suite.Equal(domain.TxnUserToUser, txn.Type)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockSupplyRepo.AssertNotCalled(suite.T(), "GetSupply", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_InsufficientFunds_NoLedgerRow() {
	ctx := context.Background()

	suite.expectAccounts(suite.user, suite.merchant)

	_, err := suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, decimal.NewFromInt(1500), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "CreateTransfer", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordFailedTransaction", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_CentralBank_ReserveFunded() {
	ctx := context.Background()
	amount := decimal.NewFromInt(2000)

	suite.expectAccounts(suite.centralBank, suite.commercial)
	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(&domain.SupplyRegistry{
		TotalMinted: decimal.NewFromInt(10000),
		Distributed: decimal.NewFromInt(3000),
	}, nil).Once()
	suite.mockLedgerRepo.On("CreateTransfer", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.TxnCentralToCommercial
	}), domain.ReserveFunded).Return(&domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.TxnCompleted,
		Type:          domain.TxnCentralToCommercial,
		Amount:        amount,
	}, nil).Once()

	txn, err := suite.service.Transfer(ctx, suite.centralBank.AccountID, suite.commercial.AccountID, amount, "weekly distribution")

	suite.Require().NoError(err)
	suite.Equal(domain.TxnCentralToCommercial, txn.Type)
	suite.mockSupplyRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_CentralBank_InsufficientReserve() {
	ctx := context.Background()

	suite.expectAccounts(suite.centralBank, suite.commercial)
	suite.mockSupplyRepo.On("GetSupply", mock.Anything).Return(&domain.SupplyRegistry{
		TotalMinted:     decimal.NewFromInt(10000),
		Distributed:     decimal.NewFromInt(9000),
		BankNotesIssued: decimal.NewFromInt(500),
	}, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.centralBank.AccountID, suite.commercial.AccountID, decimal.NewFromInt(2000), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientReserve)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "CreateTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_ValidationFailures() {
	ctx := context.Background()

	_, err := suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, decimal.Zero, "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, decimal.NewFromInt(-5), "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Transfer(ctx, suite.user.AccountID, suite.user.AccountID, decimal.NewFromInt(10), "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_UnknownReceiver() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, []string{suite.user.AccountID, unknownID}).
		Return(map[string]domain.Account{suite.user.AccountID: suite.user}, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.user.AccountID, unknownID, decimal.NewFromInt(10), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestTransfer_InactiveParty() {
	ctx := context.Background()
	suite.merchant.IsActive = false

	suite.expectAccounts(suite.user, suite.merchant)

	_, err := suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, decimal.NewFromInt(10), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestTransfer_RaceLoser_NoFailedRow() {
	// The repository re-checks funding under the row lock. A loser of that
	// race is a precondition failure and must not leave a FAILED row.
	ctx := context.Background()

	suite.expectAccounts(suite.user, suite.merchant)
	suite.mockLedgerRepo.On("CreateTransfer", mock.Anything, mock.Anything, domain.UserFunded).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, decimal.NewFromInt(500), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordFailedTransaction", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_CommitFailure_RecordsFailedRow() {
	ctx := context.Background()
	commitErr := errors.New("connection reset")

	suite.expectAccounts(suite.user, suite.merchant)
	suite.mockLedgerRepo.On("CreateTransfer", mock.Anything, mock.Anything, domain.UserFunded).
		Return(nil, commitErr).Once()
	suite.mockLedgerRepo.On("RecordFailedTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxnFailed && txn.FailureReason == commitErr.Error()
	})).Return(nil).Once()

	_, err := suite.service.Transfer(ctx, suite.user.AccountID, suite.merchant.AccountID, decimal.NewFromInt(500), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestTransferService(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
