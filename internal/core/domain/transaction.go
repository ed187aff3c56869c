package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the final state of a ledger entry.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
)

// TransactionType classifies a movement by the roles on each side.
type TransactionType string

const (
	TxnCentralToCentral       TransactionType = "central_bank_to_central_bank"
	TxnCentralToCommercial    TransactionType = "central_bank_to_commercial_bank"
	TxnCentralToUser          TransactionType = "central_bank_to_user"
	TxnCommercialToCommercial TransactionType = "commercial_bank_to_commercial_bank"
	TxnCommercialToUser       TransactionType = "commercial_bank_to_user"
	TxnCommercialToCentral    TransactionType = "commercial_bank_to_central_bank"
	TxnUserToUser             TransactionType = "user_to_user"
	TxnUserToCommercial       TransactionType = "user_to_commercial_bank"
	TxnUserToCentral          TransactionType = "user_to_central_bank"
	TxnBankNoteIssue          TransactionType = "bank_note_issue"
	TxnBankNoteRedeem         TransactionType = "bank_note_redeem"
)

// MovementClass determines which side funds a transfer.
type MovementClass string

const (
	// UserFunded transfers debit the sender's account balance.
	UserFunded MovementClass = "USER_FUNDED"
	// ReserveFunded transfers debit the supply registry's available reserve.
	ReserveFunded MovementClass = "RESERVE_FUNDED"
)

// ResolveMovement returns the movement class for a sender role.
// Central bank transfers are funded from the reserve, not an account balance.
func ResolveMovement(sender AccountRole) MovementClass {
	if sender == RoleCentralBank {
		return ReserveFunded
	}
	return UserFunded
}

// ResolveTransactionType derives the ledger entry type from the role pair.
func ResolveTransactionType(sender, receiver AccountRole) TransactionType {
	switch sender {
	case RoleCentralBank:
		switch receiver {
		case RoleCentralBank:
			return TxnCentralToCentral
		case RoleCommercialBank:
			return TxnCentralToCommercial
		default:
			return TxnCentralToUser
		}
	case RoleCommercialBank:
		switch receiver {
		case RoleCentralBank:
			return TxnCommercialToCentral
		case RoleCommercialBank:
			return TxnCommercialToCommercial
		default:
			return TxnCommercialToUser
		}
	default:
		switch receiver {
		case RoleCentralBank:
			return TxnUserToCentral
		case RoleCommercialBank:
			return TxnUserToCommercial
		default:
			return TxnUserToUser
		}
	}
}

// Transaction is an immutable ledger entry. Once COMPLETED or FAILED it is
// never mutated again.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	SenderID      string            `json:"senderID"`
	ReceiverID    string            `json:"receiverID"`
	Amount        decimal.Decimal   `json:"amount"` // Positive
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Note          string            `json:"note"`
	FailureReason string            `json:"failureReason,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	AuditFields
}
