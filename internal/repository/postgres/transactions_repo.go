package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/securecipher/bank-backend/internal/models"
	"github.com/securecipher/bank-backend/internal/money"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const txnCols = `id, account_id, transaction_type, category_id,
	amount::text, balance_before::text, balance_after::text, description,
	reference_number, status, counterparty_account_number, counterparty_name,
	ip_address, user_agent, created_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	var amount, before, after string
	err := row.Scan(&t.ID, &t.AccountID, &t.Type, &t.CategoryID,
		&amount, &before, &after, &t.Description,
		&t.ReferenceNumber, &t.Status, &t.CounterpartyAccountNumber, &t.CounterpartyName,
		&t.IPAddress, &t.UserAgent, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, repo.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	if t.Amount, err = money.Parse(amount); err != nil {
		return models.Transaction{}, err
	}
	if t.BalanceBefore, err = money.Parse(before); err != nil {
		return models.Transaction{}, err
	}
	if t.BalanceAfter, err = money.Parse(after); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx,
		`SELECT `+txnCols+` FROM transactions WHERE id=$1`, id))
}

func (r *transactionsRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnCols+`
		   FROM transactions
		  WHERE account_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) ExistsReference(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE reference_number=$1)`, ref,
	).Scan(&exists)
	return exists, err
}
