package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/securecipher/bank-backend/internal/models"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

// maxNumberAttempts bounds the account-number collision retry, the same
// pattern the transaction reference generator uses.
const maxNumberAttempts = 10

var ErrAccountNumberExhausted = errors.New("account number generation exhausted")

type AccountService struct {
	accounts repo.Accounts
	txns     repo.Transactions
}

func NewAccountService(accounts repo.Accounts, txns repo.Transactions) *AccountService {
	return &AccountService{accounts: accounts, txns: txns}
}

// Open creates an ACTIVE account with a collision-free 10-digit account
// number. The user's first account becomes the primary one.
func (s *AccountService) Open(ctx context.Context, userID, accountTypeID string) (models.Account, error) {
	number, err := s.generateNumber(ctx)
	if err != nil {
		return models.Account{}, err
	}
	hasPrimary, err := s.accounts.HasPrimary(ctx, userID)
	if err != nil {
		return models.Account{}, fmt.Errorf("primary lookup: %w", err)
	}
	return s.accounts.Create(ctx, models.Account{
		UserID:        userID,
		AccountTypeID: accountTypeID,
		AccountNumber: number,
		Status:        models.AccountActive,
		IsPrimary:     !hasPrimary,
	})
}

func (s *AccountService) generateNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		// 10 digits, never a leading zero.
		n := fmt.Sprintf("%d%09d", 1+rand.Intn(9), rand.Intn(1_000_000_000))
		exists, err := s.accounts.ExistsNumber(ctx, n)
		if err != nil {
			return "", fmt.Errorf("number existence check: %w", err)
		}
		if !exists {
			return n, nil
		}
	}
	return "", ErrAccountNumberExhausted
}

func (s *AccountService) Get(ctx context.Context, id string) (models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountService) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}

func (s *AccountService) Transactions(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	return s.txns.ListByAccount(ctx, accountID, limit, offset)
}

func (s *AccountService) Transaction(ctx context.Context, id string) (models.Transaction, error) {
	return s.txns.GetByID(ctx, id)
}
