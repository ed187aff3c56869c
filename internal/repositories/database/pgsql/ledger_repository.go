package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	"github.com/dr9911/CBDC-sub000/internal/models"
	"github.com/dr9911/CBDC-sub000/internal/utils/mapping"
	"github.com/dr9911/CBDC-sub000/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger movements.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, sender_id, receiver_id, amount, type, status, note, failure_reason, timestamp, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Amount,
		&m.Type,
		&m.Status,
		&m.Note,
		&m.FailureReason,
		&m.Timestamp,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateTransfer applies both sides of a movement and inserts the COMPLETED
// transaction, all in one database transaction. Account rows are locked in ID
// order so two concurrent transfers over the same pair cannot deadlock, and
// funding is re-checked under the lock.
func (r *PgxLedgerRepository) CreateTransfer(ctx context.Context, txn domain.Transaction, movement domain.MovementClass) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock both account rows, smallest ID first
	lockIDs := []string{txn.SenderID, txn.ReceiverID}
	sort.Strings(lockIDs)
	balances := make(map[string]decimal.Decimal, 2)
	for _, id := range lockIDs {
		var balance decimal.Decimal
		err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1 FOR UPDATE`, id).Scan(&balance)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
			return nil, fmt.Errorf("failed to lock account %s: %w", id, err)
		}
		balances[id] = balance
	}

	now := txn.Timestamp

	switch movement {
	case domain.UserFunded:
		if balances[txn.SenderID].LessThan(txn.Amount) {
			return nil, fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, balances[txn.SenderID].String(), txn.Amount.String())
		}
		if err := r.adjustBalance(ctx, tx, txn.SenderID, txn.Amount.Neg(), txn.SenderID, now); err != nil {
			return nil, err
		}
	case domain.ReserveFunded:
		supply, err := lockSupplyRow(ctx, tx)
		if err != nil {
			return nil, err
		}
		available := supply.TotalMinted.Sub(supply.Distributed).Sub(supply.BankNotesIssued)
		if available.LessThan(txn.Amount) {
			return nil, fmt.Errorf("%w: available reserve %s, requested %s", apperrors.ErrInsufficientReserve, available.String(), txn.Amount.String())
		}
		_, err = tx.Exec(ctx, `
			UPDATE supply_registry
			SET distributed = distributed + $1, last_updated_at = $2, last_updated_by = $3
			WHERE registry_id = 1`,
			txn.Amount, now, txn.SenderID)
		if err != nil {
			return nil, fmt.Errorf("failed to debit supply reserve: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown movement class %q", apperrors.ErrValidation, movement)
	}

	if err := r.adjustBalance(ctx, tx, txn.ReceiverID, txn.Amount, txn.SenderID, now); err != nil {
		return nil, err
	}

	txn.Status = domain.TxnCompleted
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *PgxLedgerRepository) adjustBalance(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, actorID string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1`,
		accountID, delta, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}
	return nil
}

// execer is satisfied by both pgx.Tx and *pgxpool.Pool.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertTransaction(ctx context.Context, q execer, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := q.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.TransactionID,
		m.SenderID,
		m.ReceiverID,
		m.Amount,
		m.Type,
		m.Status,
		m.Note,
		m.FailureReason,
		m.Timestamp,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// RecordFailedTransaction appends a FAILED ledger entry outside any business
// transaction, so the audit row survives the rollback that triggered it.
func (r *PgxLedgerRepository) RecordFailedTransaction(ctx context.Context, txn domain.Transaction) error {
	txn.Status = domain.TxnFailed
	return insertTransaction(ctx, r.Pool, txn)
}

// FindTransactionByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByAccount retrieves a paginated list of transactions that
// touch the account, newest first, using token-based pagination.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{accountID, limit + 1}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (sender_id = $1 OR receiver_id = $1)`

	if nextToken != nil && *nextToken != "" {
		lastTimestamp, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (timestamp, transaction_id) < ($3, $4)`
		args = append(args, lastTimestamp, lastID)
	}
	query += ` ORDER BY timestamp DESC, transaction_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var modelTxns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	var nextTokenVal *string
	if len(modelTxns) > limit {
		modelTxns = modelTxns[:limit]
		last := modelTxns[len(modelTxns)-1]
		token := pagination.EncodeToken(last.Timestamp, last.TransactionID)
		nextTokenVal = &token
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nextTokenVal, nil
}
