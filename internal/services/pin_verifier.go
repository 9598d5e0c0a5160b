package services

import (
	"context"
	"errors"

	"github.com/securecipher/bank-backend/internal/auth"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

// PINVerifier checks a user's transaction PIN against its stored bcrypt
// hash. It satisfies the transfer engine's SecretVerifier dependency.
type PINVerifier struct {
	users repo.Users
}

func NewPINVerifier(users repo.Users) *PINVerifier { return &PINVerifier{users: users} }

func (v *PINVerifier) VerifySecret(ctx context.Context, userID, secret string) error {
	u, err := v.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.TransactionPINHash == "" {
		return errors.New("transaction pin not set")
	}
	return auth.VerifySecret(secret, u.TransactionPINHash)
}
