// Package handlers contains the HTTP request handlers. They do request
// decoding, context plumbing and error-to-status mapping only; every
// business rule lives in the services and the ledger engine.
package handlers

import (
	"net"
	"net/http"

	"github.com/securecipher/bank-backend/internal/models"
)

// metaFrom captures origination metadata for transactions and audit
// entries.
func metaFrom(r *http.Request) models.AuditMeta {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		host = fwd
	}
	return models.AuditMeta{
		IPAddress: host,
		UserAgent: r.UserAgent(),
	}
}
