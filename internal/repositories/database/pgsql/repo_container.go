package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres-backed repositories. The OTP store
// lives in Redis and is attached by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, otpStore portsrepo.OTPStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		SupplyRepo:       newPgxSupplyRepository(dbPool),
		MintRepo:         newPgxMintRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		OTPStore:         otpStore,
	}
}
