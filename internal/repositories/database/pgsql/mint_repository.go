package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dr9911/CBDC-sub000/internal/apperrors"
	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	"github.com/dr9911/CBDC-sub000/internal/models"
	"github.com/dr9911/CBDC-sub000/internal/utils/mapping"
)

type PgxMintRepository struct {
	BaseRepository
}

// newPgxMintRepository creates a new repository for mint requests.
func newPgxMintRepository(pool *pgxpool.Pool) portsrepo.MintRepository {
	return &PgxMintRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.MintRepository = (*PgxMintRepository)(nil)

const mintColumns = `request_id, requested_by, amount, purpose, document_date, status, required_approvals, resolved_by, resolution_reason, created_at, created_by, last_updated_at, last_updated_by`

func scanMintRequest(row pgx.Row) (models.MintRequest, error) {
	var m models.MintRequest
	err := row.Scan(
		&m.RequestID,
		&m.RequestedBy,
		&m.Amount,
		&m.Purpose,
		&m.DocumentDate,
		&m.Status,
		&m.RequiredApprovals,
		&m.ResolvedBy,
		&m.ResolutionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveMintRequest inserts a new mint request.
func (r *PgxMintRepository) SaveMintRequest(ctx context.Context, req domain.MintRequest) error {
	m := mapping.ToModelMintRequest(req)

	query := `
		INSERT INTO mint_requests (` + mintColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.RequestedBy,
		m.Amount,
		m.Purpose,
		m.DocumentDate,
		m.Status,
		m.RequiredApprovals,
		m.ResolvedBy,
		m.ResolutionReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: mint request %s already exists", apperrors.ErrDuplicate, m.RequestID)
		}
		return fmt.Errorf("failed to save mint request %s: %w", m.RequestID, err)
	}
	return nil
}

func (r *PgxMintRepository) approversFor(ctx context.Context, q pgx.Tx, requestID string) ([]string, error) {
	query := `SELECT approver_id FROM mint_approvals WHERE request_id = $1 ORDER BY approved_at`
	var rows pgx.Rows
	var err error
	if q != nil {
		rows, err = q.Query(ctx, query, requestID)
	} else {
		rows, err = r.Pool.Query(ctx, query, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals for %s: %w", requestID, err)
	}
	defer rows.Close()

	var approvers []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan approval row: %w", err)
		}
		approvers = append(approvers, id)
	}
	return approvers, rows.Err()
}

// FindMintRequestByID retrieves a mint request with its approval set.
func (r *PgxMintRepository) FindMintRequestByID(ctx context.Context, requestID string) (*domain.MintRequest, error) {
	m, err := scanMintRequest(r.Pool.QueryRow(ctx, `SELECT `+mintColumns+` FROM mint_requests WHERE request_id = $1`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: mint request %s", apperrors.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to find mint request %s: %w", requestID, err)
	}

	approvers, err := r.approversFor(ctx, nil, requestID)
	if err != nil {
		return nil, err
	}

	req := mapping.ToDomainMintRequest(m, approvers)
	return &req, nil
}

// ListMintRequestsByStatus retrieves mint requests in a given status, newest first.
func (r *PgxMintRepository) ListMintRequestsByStatus(ctx context.Context, status domain.MintStatus, limit int) ([]domain.MintRequest, error) {
	query := `SELECT ` + mintColumns + ` FROM mint_requests WHERE status = $1 ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mint requests: %w", err)
	}
	defer rows.Close()

	var modelReqs []models.MintRequest
	for rows.Next() {
		m, err := scanMintRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mint request row: %w", err)
		}
		modelReqs = append(modelReqs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mint request rows: %w", err)
	}

	reqs := make([]domain.MintRequest, 0, len(modelReqs))
	for _, m := range modelReqs {
		approvers, err := r.approversFor(ctx, nil, m.RequestID)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, mapping.ToDomainMintRequest(m, approvers))
	}
	return reqs, nil
}

// UpdateMintStatus moves a request from one status to another. Guarded: if
// the stored status is not `from`, nothing is updated and ErrConflict is
// returned, so transitions never regress however calls interleave.
func (r *PgxMintRepository) UpdateMintStatus(ctx context.Context, requestID string, from, to domain.MintStatus, actorID string, reason string, now time.Time) error {
	// Resolution fields belong to terminal outcomes. A cancel back to DRAFT
	// must not leave reject attribution on the row.
	var resolvedBy, resolutionReason string
	if to.Terminal() {
		resolvedBy = actorID
		resolutionReason = reason
	}

	query := `
		UPDATE mint_requests
		SET status = $3, resolved_by = $4, resolution_reason = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE request_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, requestID, string(from), string(to), resolvedBy, resolutionReason, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to update mint request %s: %w", requestID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM mint_requests WHERE request_id = $1)`, requestID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check mint request %s: %w", requestID, err)
		}
		if !exists {
			return fmt.Errorf("%w: mint request %s", apperrors.ErrNotFound, requestID)
		}
		return fmt.Errorf("%w: mint request %s is no longer %s", apperrors.ErrConflict, requestID, from)
	}
	return nil
}

// RecordApproval registers one approver on a PENDING_APPROVAL request. The
// request row is locked for the whole operation, so concurrent approvals
// serialize: the approval insert, quorum count, status flip and supply bump
// commit together or not at all. The mint therefore fires exactly once.
func (r *PgxMintRepository) RecordApproval(ctx context.Context, requestID string, approverID string, now time.Time) (*domain.MintRequest, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanMintRequest(tx.QueryRow(ctx, `SELECT `+mintColumns+` FROM mint_requests WHERE request_id = $1 FOR UPDATE`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: mint request %s", apperrors.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to lock mint request %s: %w", requestID, err)
	}
	if m.Status != string(domain.MintPendingApproval) {
		return nil, fmt.Errorf("%w: mint request %s is %s", apperrors.ErrConflict, requestID, m.Status)
	}

	// Idempotent per approver: the PK on (request_id, approver_id) absorbs
	// re-approvals without inflating the count.
	_, err = tx.Exec(ctx, `
		INSERT INTO mint_approvals (request_id, approver_id, approved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id, approver_id) DO NOTHING`,
		requestID, approverID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record approval on %s: %w", requestID, err)
	}

	approvers, err := r.approversFor(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if len(approvers) >= m.RequiredApprovals {
		if err := increaseTotalMinted(ctx, tx, m.Amount, approverID, now); err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE mint_requests
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE request_id = $1`,
			requestID, string(domain.MintApproved), now, approverID)
		if err != nil {
			return nil, fmt.Errorf("failed to approve mint request %s: %w", requestID, err)
		}
		m.Status = string(domain.MintApproved)
	} else {
		// Below quorum the row still records the approval activity, so a
		// subsequent read (and the approval window) agrees with the value
		// returned here.
		_, err = tx.Exec(ctx, `
			UPDATE mint_requests
			SET last_updated_at = $2, last_updated_by = $3
			WHERE request_id = $1`,
			requestID, now, approverID)
		if err != nil {
			return nil, fmt.Errorf("failed to touch mint request %s: %w", requestID, err)
		}
	}
	m.LastUpdatedAt = now
	m.LastUpdatedBy = approverID

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	req := mapping.ToDomainMintRequest(m, approvers)
	return &req, nil
}
