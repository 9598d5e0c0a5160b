package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/securecipher/bank-backend/internal/models"
)

type categoriesRepo struct{ pool *pgxpool.Pool }

func (r *categoriesRepo) GetOrCreate(ctx context.Context, name string) (models.TransactionCategory, error) {
	c, err := r.get(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.TransactionCategory{}, err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO transaction_categories(id, name)
		 VALUES($1,$2)
		 ON CONFLICT (name) DO NOTHING`,
		uuid.NewString(), name,
	)
	if err != nil {
		return models.TransactionCategory{}, err
	}
	return r.get(ctx, name)
}

func (r *categoriesRepo) get(ctx context.Context, name string) (models.TransactionCategory, error) {
	var c models.TransactionCategory
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM transaction_categories WHERE name=$1`,
		name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}
