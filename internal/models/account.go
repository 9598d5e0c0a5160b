package models

import (
	"time"

	"github.com/securecipher/bank-backend/internal/money"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountInactive  AccountStatus = "INACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountClosed    AccountStatus = "CLOSED"
)

// Account is a customer bank account. Balance fields are mutated only by
// the transfer engine; AvailableBalance tracks Balance minus holds and is
// kept equal to Balance after every completed transfer.
type Account struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	AccountTypeID    string        `json:"account_type_id"`
	AccountNumber    string        `json:"account_number"`
	Balance          money.Amount  `json:"balance"`
	AvailableBalance money.Amount  `json:"available_balance"`
	Status           AccountStatus `json:"status"`
	IsPrimary        bool          `json:"is_primary"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// AccountType describes a product tier (Savings, Checking, ...).
type AccountType struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	MinimumBalance money.Amount `json:"minimum_balance"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
}
