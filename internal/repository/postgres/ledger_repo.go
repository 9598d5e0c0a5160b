package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/securecipher/bank-backend/internal/models"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

type ledgerRepo struct{ pool *pgxpool.Pool }

// SaveTransfer commits the updated account rows and the new transaction
// rows in one database transaction. A failure at any point rolls the
// whole unit back, so callers never see a partial transfer.
func (r *ledgerRepo) SaveTransfer(ctx context.Context, accounts []models.Account, txns []models.Transaction) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range accounts {
		tag, err := tx.Exec(ctx,
			`UPDATE accounts
			    SET balance=$2, available_balance=$3, updated_at=now()
			  WHERE id=$1`,
			a.ID, a.Balance.String(), a.AvailableBalance.String(),
		)
		if err != nil {
			return fmt.Errorf("update account %s: %w", a.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update account %s: no such row", a.ID)
		}
	}

	for _, t := range txns {
		_, err := tx.Exec(ctx,
			`INSERT INTO transactions(
			    id, account_id, transaction_type, category_id,
			    amount, balance_before, balance_after, description,
			    reference_number, status, counterparty_account_number,
			    counterparty_name, ip_address, user_agent, created_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			t.ID, t.AccountID, t.Type, t.CategoryID,
			t.Amount.String(), t.BalanceBefore.String(), t.BalanceAfter.String(), t.Description,
			t.ReferenceNumber, t.Status, t.CounterpartyAccountNumber,
			t.CounterpartyName, t.IPAddress, t.UserAgent, t.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" &&
				strings.Contains(pgErr.ConstraintName, "reference_number") {
				return fmt.Errorf("%w: %s", repo.ErrDuplicateReference, t.ReferenceNumber)
			}
			return fmt.Errorf("insert transaction %s: %w", t.ReferenceNumber, err)
		}
	}

	return tx.Commit(ctx)
}
