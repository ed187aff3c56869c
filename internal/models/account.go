package models

import (
	"github.com/shopspring/decimal"
)

// Account is the DB row shape for ledger accounts.
type Account struct {
	AccountID string          `db:"account_id"`
	Name      string          `db:"name"`
	Role      string          `db:"role"` // USER, COMMERCIAL_BANK, CENTRAL_BANK
	Balance   decimal.Decimal `db:"balance"`
	IsActive  bool            `db:"is_active"`
	AuditFields
}
