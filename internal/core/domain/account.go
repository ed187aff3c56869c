package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRole is the closed set of party roles on the ledger.
type AccountRole string

const (
	RoleUser           AccountRole = "USER"
	RoleCommercialBank AccountRole = "COMMERCIAL_BANK"
	RoleCentralBank    AccountRole = "CENTRAL_BANK"
)

// Valid reports whether the role is one of the three known roles.
func (r AccountRole) Valid() bool {
	switch r {
	case RoleUser, RoleCommercialBank, RoleCentralBank:
		return true
	}
	return false
}

// Account represents a party holding CBDC on the ledger.
// Balance is mutated only through the transfer engine; the invariant
// balance >= 0 holds at all times.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	Name      string          `json:"name"`
	Role      AccountRole     `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"` // Deactivated accounts are kept, never deleted
	AuditFields
}
