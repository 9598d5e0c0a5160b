package ledger

import (
	"errors"

	"github.com/securecipher/bank-backend/internal/money"
)

// Transfer error taxonomy. Validation errors are detected before any
// mutation; mutation-phase errors always follow a full rollback. The API
// layer maps these to transport status codes via Code.
var (
	ErrInvalidAmount          = money.ErrInvalidAmount
	ErrSelfTransfer           = errors.New("source and destination accounts are the same")
	ErrSourceUnavailable      = errors.New("source account unavailable")
	ErrDestinationUnavailable = errors.New("destination account unavailable")
	ErrAuthorizationFailed    = errors.New("transaction authorization failed")
	ErrInsufficientFunds      = errors.New("insufficient funds")

	// ErrReferenceExhausted means the bounded reference-generation retry
	// ran out. Operational alarm, not a user error.
	ErrReferenceExhausted = errors.New("reference number generation exhausted")

	// ErrTransferFailed is a storage failure after bounded internal retry.
	// Rollback is guaranteed, so the caller may safely retry.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrAuditWriteFailed marks a completed transfer whose audit entry
	// could not be written. The transfer stands; operators get alerted.
	ErrAuditWriteFailed = errors.New("audit write failed")
)

// Code returns the stable machine-readable kind for a transfer error, or
// "internal_error" for anything outside the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrSelfTransfer):
		return "self_transfer_rejected"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_account_unavailable"
	case errors.Is(err, ErrDestinationUnavailable):
		return "destination_account_unavailable"
	case errors.Is(err, ErrAuthorizationFailed):
		return "authorization_failed"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrReferenceExhausted):
		return "reference_exhausted"
	case errors.Is(err, ErrTransferFailed):
		return "transfer_failed"
	case errors.Is(err, ErrAuditWriteFailed):
		return "audit_write_failed"
	default:
		return "internal_error"
	}
}
