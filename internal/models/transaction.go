package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the DB row shape for immutable ledger entries.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	SenderID      string          `db:"sender_id"`
	ReceiverID    string          `db:"receiver_id"`
	Amount        decimal.Decimal `db:"amount"`
	Type          string          `db:"type"`
	Status        string          `db:"status"` // PENDING, COMPLETED, FAILED
	Note          string          `db:"note"`
	FailureReason string          `db:"failure_reason"` // Nullable
	Timestamp     time.Time       `db:"timestamp"`
	AuditFields
}
