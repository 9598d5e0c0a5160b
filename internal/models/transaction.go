package models

import (
	"time"

	"github.com/securecipher/bank-backend/internal/money"
)

type TransactionType string

const (
	TxnCredit TransactionType = "CREDIT"
	TxnDebit  TransactionType = "DEBIT"
)

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
	TxnCancelled TransactionStatus = "CANCELLED"
)

// Transaction is one leg of a ledger movement. Rows are written once, in
// COMPLETED state, and never mutated afterwards; BalanceBefore/After are
// snapshots of the owning account taken inside the atomic unit.
type Transaction struct {
	ID              string            `json:"id"`
	AccountID       string            `json:"account_id"`
	Type            TransactionType   `json:"transaction_type"`
	CategoryID      string            `json:"category_id"`
	Amount          money.Amount      `json:"amount"`
	BalanceBefore   money.Amount      `json:"balance_before"`
	BalanceAfter    money.Amount      `json:"balance_after"`
	Description     string            `json:"description"`
	ReferenceNumber string            `json:"reference_number"`
	Status          TransactionStatus `json:"status"`

	// Counterparty fields are set for transfers: the other account's
	// number and holder name.
	CounterpartyAccountNumber string `json:"counterparty_account_number,omitempty"`
	CounterpartyName          string `json:"counterparty_name,omitempty"`

	// Origination metadata.
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SignedAmount is the amount with the sign of the leg: negative for
// debits, positive for credits. Summing signed amounts of all COMPLETED
// transactions of an account must equal its stored balance.
func (t Transaction) SignedAmount() money.Amount {
	if t.Type == TxnDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionCategory labels transactions (Transfer, Deposit, ...).
type TransactionCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
