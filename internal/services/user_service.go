package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/securecipher/bank-backend/internal/auth"
	"github.com/securecipher/bank-backend/internal/models"
	repo "github.com/securecipher/bank-backend/internal/repository"
	"github.com/securecipher/bank-backend/internal/worker"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	users repo.Users
	audit repo.AuditLogs
	tm    *auth.TokenManager
	wp    *worker.Pool
}

func NewUserService(users repo.Users, audit repo.AuditLogs, tm *auth.TokenManager, wp *worker.Pool) *UserService {
	return &UserService{users: users, audit: audit, tm: tm, wp: wp}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Role:     "user",
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashSecret(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash
	return s.users.Create(ctx, u)
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *UserService) Login(ctx context.Context, email, password string, meta models.AuditMeta) (models.User, TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if err := auth.VerifySecret(password, u.PasswordHash); err != nil {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Role)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("token generation: %w", err)
	}
	s.auditAsync(u.ID, models.AuditLogin, "User logged in", meta)
	return u, TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

func (s *UserService) Refresh(refreshToken string) (TokenPair, error) {
	claims, isRefresh, err := s.tm.ParseAny(refreshToken)
	if err != nil || !isRefresh {
		return TokenPair{}, ErrInvalidCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(claims.UserID, claims.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("token generation: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// SetPIN stores the bcrypt hash of the user's transaction PIN.
func (s *UserService) SetPIN(ctx context.Context, userID, pin string, meta models.AuditMeta) error {
	if len(pin) != 4 || strings.Trim(pin, "0123456789") != "" {
		return errors.New("pin must be 4 digits")
	}
	hash, err := auth.HashSecret(pin)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePINHash(ctx, userID, hash); err != nil {
		return err
	}
	s.auditAsync(userID, models.AuditAccountUpdate, "Transaction PIN updated", meta)
	return nil
}

func (s *UserService) auditAsync(userID, action, description string, meta models.AuditMeta) {
	if s.wp == nil {
		return
	}
	entry := models.AuditLog{
		ID:          uuid.NewString(),
		UserID:      &userID,
		Action:      action,
		Description: description,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		CreatedAt:   time.Now().UTC(),
	}
	s.wp.Submit(func() { _ = s.audit.Append(context.Background(), entry) })
}
