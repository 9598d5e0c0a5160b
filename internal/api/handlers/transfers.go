package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/securecipher/bank-backend/internal/api/httpx"
	"github.com/securecipher/bank-backend/internal/ledger"
	"github.com/securecipher/bank-backend/internal/middleware"
	"github.com/securecipher/bank-backend/internal/money"
)

type TransfersHandler struct {
	engine *ledger.Engine
}

func NewTransfersHandler(engine *ledger.Engine) *TransfersHandler {
	return &TransfersHandler{engine: engine}
}

type transferRequest struct {
	SourceAccountID          string `json:"source_account_id"`
	DestinationAccountNumber string `json:"destination_account_number"`
	Amount                   string `json:"amount"`
	Description              string `json:"description"`
	PIN                      string `json:"pin"`
}

// statusFor maps engine error kinds to transport status codes. Anything
// outside the taxonomy is a 500 with no internal detail leaked.
func statusFor(code string) int {
	switch code {
	case "invalid_amount", "self_transfer_rejected",
		"source_account_unavailable", "destination_account_unavailable",
		"insufficient_funds":
		return http.StatusBadRequest
	case "authorization_failed":
		return http.StatusForbidden
	case "transfer_failed":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, ledger.Code(err), "invalid amount", nil)
		return
	}

	res, err := h.engine.Transfer(r.Context(), ledger.TransferRequest{
		UserID:                   uid,
		SourceAccountID:          req.SourceAccountID,
		DestinationAccountNumber: req.DestinationAccountNumber,
		Amount:                   amount,
		Description:              req.Description,
		PIN:                      req.PIN,
		Meta:                     metaFrom(r),
	})
	if err != nil {
		code := ledger.Code(err)
		httpx.WriteError(w, statusFor(code), code, userMessage(code), nil)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":          "transfer completed",
		"reference_number": res.DebitTransaction.ReferenceNumber,
		"debit":            res.DebitTransaction,
		"credit":           res.CreditTransaction,
		"balance":          res.SourceBalance,
	})
}

func userMessage(code string) string {
	switch code {
	case "invalid_amount":
		return "amount must be a positive value with at most two decimal places"
	case "self_transfer_rejected":
		return "cannot transfer to the same account"
	case "source_account_unavailable":
		return "source account unavailable"
	case "destination_account_unavailable":
		return "destination account unavailable"
	case "authorization_failed":
		return "invalid transaction pin"
	case "insufficient_funds":
		return "insufficient funds"
	case "transfer_failed":
		return "transfer could not be completed, please retry"
	default:
		return "internal error"
	}
}
