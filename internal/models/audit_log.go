package models

import "time"

// Audit action kinds.
const (
	AuditLogin          = "LOGIN"
	AuditLogout         = "LOGOUT"
	AuditTransaction    = "TRANSACTION"
	AuditAccountUpdate  = "ACCOUNT_UPDATE"
	AuditPasswordChange = "PASSWORD_CHANGE"
)

// AuditMeta is origination metadata captured at the API boundary.
type AuditMeta struct {
	IPAddress string
	UserAgent string
}

// AuditLog is an append-only record of a security-relevant event. No
// update or delete path exists anywhere in the codebase.
type AuditLog struct {
	ID          string         `json:"id"`
	UserID      *string        `json:"user_id"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	IPAddress   string         `json:"ip_address,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
