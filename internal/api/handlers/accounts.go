package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/securecipher/bank-backend/internal/api/httpx"
	"github.com/securecipher/bank-backend/internal/middleware"
	repo "github.com/securecipher/bank-backend/internal/repository"
	"github.com/securecipher/bank-backend/internal/services"
)

type AccountsHandler struct {
	accounts *services.AccountService
}

func NewAccountsHandler(accounts *services.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

func (h *AccountsHandler) Open(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		AccountTypeID string `json:"account_type_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountTypeID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "account_type_id required", nil)
		return
	}
	a, err := h.accounts.Open(r.Context(), uid, req.AccountTypeID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "account_open_failed", "could not open account", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	out, err := h.accounts.ListByUser(r.Context(), uid)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not list accounts", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// owned loads the account from the path and enforces that the caller
// owns it; other users' accounts read as not found.
func (h *AccountsHandler) owned(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, _ := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")
	a, err := h.accounts.Get(r.Context(), id)
	if err != nil || a.UserID != uid {
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not load account", nil)
			return "", false
		}
		httpx.WriteError(w, http.StatusNotFound, "not_found", "account not found", nil)
		return "", false
	}
	return a.ID, true
}

func (h *AccountsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.owned(w, r)
	if !ok {
		return
	}
	a, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not load account", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"account_number":    a.AccountNumber,
		"balance":           a.Balance,
		"available_balance": a.AvailableBalance,
	})
}

func (h *AccountsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.owned(w, r)
	if !ok {
		return
	}
	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	txns, err := h.accounts.Transactions(r.Context(), id, limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not list transactions", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txns)
}

// Transaction returns a single transaction if the caller owns the
// account it belongs to.
func (h *AccountsHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	t, err := h.accounts.Transaction(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		if a, aerr := h.accounts.Get(r.Context(), t.AccountID); aerr == nil && a.UserID == uid {
			httpx.WriteJSON(w, http.StatusOK, t)
			return
		}
	}
	httpx.WriteError(w, http.StatusNotFound, "not_found", "transaction not found", nil)
}
