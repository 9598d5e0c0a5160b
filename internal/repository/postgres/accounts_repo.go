package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/securecipher/bank-backend/internal/models"
	"github.com/securecipher/bank-backend/internal/money"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

type accountsRepo struct{ pool *pgxpool.Pool }

// Balances travel as text and are parsed through the money type, so the
// currency-scale validation applies on the way out of storage too.
const accountCols = `id, user_id, account_type_id, account_number,
	balance::text, available_balance::text, status, is_primary, created_at, updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	var balance, available string
	err := row.Scan(&a.ID, &a.UserID, &a.AccountTypeID, &a.AccountNumber,
		&balance, &available, &a.Status, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repo.ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	if a.Balance, err = money.Parse(balance); err != nil {
		return models.Account{}, err
	}
	if a.AvailableBalance, err = money.Parse(available); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts(id, user_id, account_type_id, account_number,
		    balance, available_balance, status, is_primary)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.UserID, a.AccountTypeID, a.AccountNumber,
		a.Balance.String(), a.AvailableBalance.String(), a.Status, a.IsPrimary,
	)
	if err != nil {
		return models.Account{}, err
	}
	return r.GetByID(ctx, a.ID)
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id=$1`, id))
}

func (r *accountsRepo) GetByNumber(ctx context.Context, number string) (models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE account_number=$1`, number))
}

func (r *accountsRepo) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) ExistsNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number=$1)`, number,
	).Scan(&exists)
	return exists, err
}

func (r *accountsRepo) HasPrimary(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE user_id=$1 AND is_primary)`, userID,
	).Scan(&exists)
	return exists, err
}
