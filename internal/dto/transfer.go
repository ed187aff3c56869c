package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// CreateTransferRequest defines the data needed to move funds between accounts.
// The sender is taken from the authenticated caller, never from the body.
type CreateTransferRequest struct {
	ReceiverID string          `json:"receiverID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Note       string          `json:"note"`
}

// TransactionResponse defines the data returned for a ledger transaction.
// Mirrors domain.Transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	SenderID      string          `json:"senderID"`
	ReceiverID    string          `json:"receiverID"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Note          string          `json:"note,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		SenderID:      txn.SenderID,
		ReceiverID:    txn.ReceiverID,
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		Status:        string(txn.Status),
		Note:          txn.Note,
		FailureReason: txn.FailureReason,
		Timestamp:     txn.Timestamp,
	}
}

// ToTransactionResponses converts a slice of domain transactions to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, ToTransactionResponse(&txns[i]))
	}
	return out
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse is the paginated transaction listing payload.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
