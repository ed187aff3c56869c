package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	"github.com/dr9911/CBDC-sub000/internal/models"
	"github.com/dr9911/CBDC-sub000/internal/utils/mapping"
)

type PgxSupplyRepository struct {
	BaseRepository
}

// newPgxSupplyRepository creates a new repository for the supply registry.
func newPgxSupplyRepository(pool *pgxpool.Pool) portsrepo.SupplyRepository {
	return &PgxSupplyRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SupplyRepository = (*PgxSupplyRepository)(nil)

const supplyColumns = `registry_id, total_minted, distributed, bank_notes_issued, bank_notes_redeemed, last_updated_at, last_updated_by`

func scanSupply(row pgx.Row) (models.SupplyRegistry, error) {
	var m models.SupplyRegistry
	err := row.Scan(
		&m.RegistryID,
		&m.TotalMinted,
		&m.Distributed,
		&m.BankNotesIssued,
		&m.BankNotesRedeemed,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// lockSupplyRow takes the row lock on the singleton registry record. Every
// mutation of supply state goes through this lock, serializing mints,
// reserve-funded transfers and banknote conversions against each other.
func lockSupplyRow(ctx context.Context, tx pgx.Tx) (models.SupplyRegistry, error) {
	m, err := scanSupply(tx.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supply_registry WHERE registry_id = 1 FOR UPDATE`))
	if err != nil {
		return models.SupplyRegistry{}, fmt.Errorf("%w: failed to lock supply registry: %s", apperrors.ErrPersistence, err.Error())
	}
	return m, nil
}

// GetSupply reads the registry without locking.
func (r *PgxSupplyRepository) GetSupply(ctx context.Context) (*domain.SupplyRegistry, error) {
	m, err := scanSupply(r.Pool.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supply_registry WHERE registry_id = 1`))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read supply registry: %s", apperrors.ErrPersistence, err.Error())
	}
	supply := mapping.ToDomainSupplyRegistry(m)
	return &supply, nil
}

// IssueBankNotes converts reserve CBDC into outstanding banknotes and records
// the conversion as a ledger entry, atomically.
func (r *PgxSupplyRepository) IssueBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string) (*domain.Transaction, error) {
	return r.convertBankNotes(ctx, amount, actorID, note, domain.TxnBankNoteIssue)
}

// RedeemBankNotes retires outstanding banknotes back into the reserve.
func (r *PgxSupplyRepository) RedeemBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string) (*domain.Transaction, error) {
	return r.convertBankNotes(ctx, amount, actorID, note, domain.TxnBankNoteRedeem)
}

func (r *PgxSupplyRepository) convertBankNotes(ctx context.Context, amount decimal.Decimal, actorID string, note string, txnType domain.TransactionType) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	supply, err := lockSupplyRow(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch txnType {
	case domain.TxnBankNoteIssue:
		available := supply.TotalMinted.Sub(supply.Distributed).Sub(supply.BankNotesIssued)
		if available.LessThan(amount) {
			return nil, fmt.Errorf("%w: available reserve %s, requested %s", apperrors.ErrInsufficientReserve, available.String(), amount.String())
		}
		_, err = tx.Exec(ctx, `
			UPDATE supply_registry
			SET bank_notes_issued = bank_notes_issued + $1, last_updated_at = $2, last_updated_by = $3
			WHERE registry_id = 1`,
			amount, now, actorID)
	case domain.TxnBankNoteRedeem:
		if supply.BankNotesIssued.LessThan(amount) {
			return nil, fmt.Errorf("%w: cannot redeem %s, only %s banknotes outstanding", apperrors.ErrValidation, amount.String(), supply.BankNotesIssued.String())
		}
		_, err = tx.Exec(ctx, `
			UPDATE supply_registry
			SET bank_notes_issued = bank_notes_issued - $1,
			    bank_notes_redeemed = bank_notes_redeemed + $1,
			    last_updated_at = $2, last_updated_by = $3
			WHERE registry_id = 1`,
			amount, now, actorID)
	default:
		return nil, fmt.Errorf("%w: unexpected banknote transaction type %q", apperrors.ErrValidation, txnType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update supply registry: %w", err)
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      actorID,
		ReceiverID:    actorID,
		Amount:        amount,
		Type:          txnType,
		Status:        domain.TxnCompleted,
		Note:          note,
		Timestamp:     now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// increaseTotalMinted bumps the minted total inside an existing transaction.
// Called by the mint repository at the moment a request reaches quorum.
func increaseTotalMinted(ctx context.Context, tx pgx.Tx, amount decimal.Decimal, actorID string, now time.Time) error {
	if _, err := lockSupplyRow(ctx, tx); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		UPDATE supply_registry
		SET total_minted = total_minted + $1, last_updated_at = $2, last_updated_by = $3
		WHERE registry_id = 1`,
		amount, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to increase total minted: %w", err)
	}
	return nil
}
