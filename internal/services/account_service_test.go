package services

import (
	"context"
	"errors"
	"testing"

	"github.com/securecipher/bank-backend/internal/models"
	"github.com/securecipher/bank-backend/internal/repository/memory"
)

func TestOpenAccount(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	svc := NewAccountService(repos.Accounts, repos.Transactions)
	ctx := context.Background()

	first, err := svc.Open(ctx, "u1", "checking")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.AccountNumber) != 10 || first.AccountNumber[0] == '0' {
		t.Errorf("account number %q not 10 digits without leading zero", first.AccountNumber)
	}
	if first.Status != models.AccountActive {
		t.Errorf("status = %s, want ACTIVE", first.Status)
	}
	if !first.IsPrimary {
		t.Error("first account not primary")
	}
	if !first.Balance.Equal(first.AvailableBalance) || first.Balance.String() != "0.00" {
		t.Errorf("new account balances = %s/%s, want 0.00", first.Balance, first.AvailableBalance)
	}

	second, err := svc.Open(ctx, "u1", "savings")
	if err != nil {
		t.Fatal(err)
	}
	if second.IsPrimary {
		t.Error("second account marked primary")
	}
	if second.AccountNumber == first.AccountNumber {
		t.Error("duplicate account number issued")
	}

	other, err := svc.Open(ctx, "u2", "checking")
	if err != nil {
		t.Fatal(err)
	}
	if !other.IsPrimary {
		t.Error("another user's first account not primary")
	}
}

func TestOpenAccountNumberExhaustion(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	svc := NewAccountService(saturated{inner: repos}, repos.Transactions)

	_, err := svc.Open(context.Background(), "u1", "checking")
	if !errors.Is(err, ErrAccountNumberExhausted) {
		t.Fatalf("err = %v, want ErrAccountNumberExhausted", err)
	}
}

// saturated wraps the memory accounts repo but reports every candidate
// account number as already taken.
type saturated struct {
	inner memory.Repositories
}

func (s saturated) Create(ctx context.Context, a models.Account) (models.Account, error) {
	return s.inner.Accounts.Create(ctx, a)
}

func (s saturated) GetByID(ctx context.Context, id string) (models.Account, error) {
	return s.inner.Accounts.GetByID(ctx, id)
}

func (s saturated) GetByNumber(ctx context.Context, number string) (models.Account, error) {
	return s.inner.Accounts.GetByNumber(ctx, number)
}

func (s saturated) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	return s.inner.Accounts.ListByUser(ctx, userID)
}

func (s saturated) ExistsNumber(ctx context.Context, number string) (bool, error) {
	return true, nil
}

func (s saturated) HasPrimary(ctx context.Context, userID string) (bool, error) {
	return s.inner.Accounts.HasPrimary(ctx, userID)
}
