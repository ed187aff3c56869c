package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByRole(ctx context.Context, role domain.AccountRole) ([]domain.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) CreateTransfer(ctx context.Context, txn domain.Transaction, movement domain.MovementClass) (*domain.Transaction, error) {
	args := m.Called(ctx, txn, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) RecordFailedTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

// --- Mock SupplyRepository ---
type MockSupplyRepository struct {
	mock.Mock
}

var _ portsrepo.SupplyRepository = (*MockSupplyRepository)(nil)

func (m *MockSupplyRepository) GetSupply(ctx context.Context) (*domain.SupplyRegistry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupplyRegistry), args.Error(1)
}

func (m *MockSupplyRepository) IssueBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string) (*domain.Transaction, error) {
	args := m.Called(ctx, amount, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockSupplyRepository) RedeemBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string) (*domain.Transaction, error) {
	args := m.Called(ctx, amount, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Mock MintRepository ---
type MockMintRepository struct {
	mock.Mock
}

var _ portsrepo.MintRepository = (*MockMintRepository)(nil)

func (m *MockMintRepository) SaveMintRequest(ctx context.Context, req domain.MintRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMintRepository) FindMintRequestByID(ctx context.Context, requestID string) (*domain.MintRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MintRequest), args.Error(1)
}

func (m *MockMintRepository) ListMintRequestsByStatus(ctx context.Context, status domain.MintStatus, limit int) ([]domain.MintRequest, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MintRequest), args.Error(1)
}

func (m *MockMintRepository) UpdateMintStatus(ctx context.Context, requestID string, from, to domain.MintStatus, actorID string, reason string, now time.Time) error {
	args := m.Called(ctx, requestID, from, to, actorID, reason, now)
	return args.Error(0)
}

func (m *MockMintRepository) RecordApproval(ctx context.Context, requestID string, approverID string, now time.Time) (*domain.MintRequest, error) {
	args := m.Called(ctx, requestID, approverID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MintRequest), args.Error(1)
}

// --- Mock NotificationRepository ---
type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

// --- Mock OTPStore ---
type MockOTPStore struct {
	mock.Mock
}

var _ portsrepo.OTPStore = (*MockOTPStore)(nil)

func (m *MockOTPStore) StoreCodeHash(ctx context.Context, key string, codeHash string, ttl time.Duration) error {
	args := m.Called(ctx, key, codeHash, ttl)
	return args.Error(0)
}

func (m *MockOTPStore) GetCodeHash(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockOTPStore) ConsumeCode(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockOTPStore) IncrementAttempts(ctx context.Context, key string, ttl time.Duration) (int, error) {
	args := m.Called(ctx, key, ttl)
	return args.Int(0), args.Error(1)
}

// --- Mock OTPSender ---
type MockOTPSender struct {
	mock.Mock
}

var _ portssvc.OTPSender = (*MockOTPSender)(nil)

func (m *MockOTPSender) SendOTP(ctx context.Context, accountID string, code string) error {
	args := m.Called(ctx, accountID, code)
	return args.Error(0)
}

// --- Mock NotifierSvcFacade ---
type MockNotifier struct {
	mock.Mock
}

var _ portssvc.NotifierSvcFacade = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyMintEvent(ctx context.Context, notifType domain.NotificationType, requestID string, recipientIDs []string) {
	m.Called(ctx, notifType, requestID, recipientIDs)
}

func (m *MockNotifier) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotifier) MarkRead(ctx context.Context, notificationID string, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotifier) Run(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
