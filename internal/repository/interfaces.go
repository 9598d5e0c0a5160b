package repository

import (
	"context"
	"errors"

	"github.com/securecipher/bank-backend/internal/models"
)

// ErrNotFound is returned by lookups when no row matches. Implementations
// translate their driver's not-found signal (pgx.ErrNoRows, missing map
// key) to this so callers never depend on storage details.
var ErrNotFound = errors.New("not found")

// ErrDuplicateReference is returned by Ledger.SaveTransfer when a
// transaction row collides with an existing reference number. The
// transfer engine recovers by regenerating references and retrying.
var ErrDuplicateReference = errors.New("duplicate reference")

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePINHash(ctx context.Context, id, pinHash string) error
}

type Accounts interface {
	Create(ctx context.Context, a models.Account) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	GetByNumber(ctx context.Context, number string) (models.Account, error)
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	ExistsNumber(ctx context.Context, number string) (bool, error)
	// HasPrimary reports whether the user already has a primary account.
	HasPrimary(ctx context.Context, userID string) (bool, error)
}

type Transactions interface {
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error)
	ExistsReference(ctx context.Context, ref string) (bool, error)
}

type Categories interface {
	GetOrCreate(ctx context.Context, name string) (models.TransactionCategory, error)
}

// Ledger persists the outcome of a transfer: updated account rows plus the
// new transaction rows, committed as one atomic unit. Either every row is
// durable or none is; a failed call must leave the store untouched.
type Ledger interface {
	SaveTransfer(ctx context.Context, accounts []models.Account, txns []models.Transaction) error
}

// AuditLogs is append-only by contract: no update or delete methods exist.
type AuditLogs interface {
	Append(ctx context.Context, entry models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}
