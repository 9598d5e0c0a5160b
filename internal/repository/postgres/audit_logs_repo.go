package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/securecipher/bank-backend/internal/models"
)

// auditLogsRepo only ever inserts and reads; no update or delete
// statement exists for audit_logs anywhere in this codebase.
type auditLogsRepo struct{ pool *pgxpool.Pool }

func (r *auditLogsRepo) Append(ctx context.Context, entry models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs(id, user_id, action, description, ip_address, user_agent, details, created_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.ID, entry.UserID, entry.Action, entry.Description,
		entry.IPAddress, entry.UserAgent, entry.Details, entry.CreatedAt,
	)
	return err
}

func (r *auditLogsRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, action, description, ip_address, user_agent, details, created_at
		   FROM audit_logs
		  ORDER BY created_at DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Description,
			&e.IPAddress, &e.UserAgent, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
