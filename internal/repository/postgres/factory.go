package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/securecipher/bank-backend/internal/repository"
)

type Repositories struct {
	Users        repo.Users
	Accounts     repo.Accounts
	Transactions repo.Transactions
	Categories   repo.Categories
	Ledger       repo.Ledger
	AuditLogs    repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        &usersRepo{pool},
		Accounts:     &accountsRepo{pool},
		Transactions: &transactionsRepo{pool},
		Categories:   &categoriesRepo{pool},
		Ledger:       &ledgerRepo{pool},
		AuditLogs:    &auditLogsRepo{pool},
	}
}
