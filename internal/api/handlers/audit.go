package handlers

import (
	"net/http"
	"strconv"

	"github.com/securecipher/bank-backend/internal/api/httpx"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

// AuditHandler exposes recent audit entries to operators. Read-only;
// the audit log has no write surface over HTTP.
type AuditHandler struct {
	audit repo.AuditLogs
}

func NewAuditHandler(audit repo.AuditLogs) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	entries, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not list audit entries", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}
