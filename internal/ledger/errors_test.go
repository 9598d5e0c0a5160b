package ledger

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrInvalidAmount, "invalid_amount"},
		{ErrSelfTransfer, "self_transfer_rejected"},
		{ErrSourceUnavailable, "source_account_unavailable"},
		{ErrDestinationUnavailable, "destination_account_unavailable"},
		{ErrAuthorizationFailed, "authorization_failed"},
		{ErrInsufficientFunds, "insufficient_funds"},
		{ErrReferenceExhausted, "reference_exhausted"},
		{ErrTransferFailed, "transfer_failed"},
		{ErrAuditWriteFailed, "audit_write_failed"},
		{errors.New("boom"), "internal_error"},
		{nil, "internal_error"},
	}
	for _, tc := range cases {
		if got := Code(tc.err); got != tc.want {
			t.Errorf("Code(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}

	// Wrapped taxonomy errors keep their code.
	wrapped := fmt.Errorf("%w: persisting ledger rows", ErrTransferFailed)
	if got := Code(wrapped); got != "transfer_failed" {
		t.Errorf("Code(wrapped) = %q, want transfer_failed", got)
	}
}
