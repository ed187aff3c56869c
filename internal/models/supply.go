package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyRegistry is the DB row shape for the singleton supply record.
// The table holds exactly one row with registry_id = 1.
type SupplyRegistry struct {
	RegistryID        int             `db:"registry_id"`
	TotalMinted       decimal.Decimal `db:"total_minted"`
	Distributed       decimal.Decimal `db:"distributed"`
	BankNotesIssued   decimal.Decimal `db:"bank_notes_issued"`
	BankNotesRedeemed decimal.Decimal `db:"bank_notes_redeemed"`
	LastUpdatedAt     time.Time       `db:"last_updated_at"`
	LastUpdatedBy     string          `db:"last_updated_by"`
}
