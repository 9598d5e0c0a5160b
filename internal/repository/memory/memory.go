// Package memory is an in-process implementation of the repository
// interfaces, used by unit tests and the dev profile. SaveTransfer is
// atomic under a single store mutex, matching the all-or-nothing
// contract of the postgres implementation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securecipher/bank-backend/internal/models"
	repo "github.com/securecipher/bank-backend/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	accounts   map[string]models.Account
	byNumber   map[string]string // account number -> id
	txns       map[string]models.Transaction
	byRef      map[string]string // reference -> txn id
	categories map[string]models.TransactionCategory
	audit      []models.AuditLog

	// SaveErr, when set, makes SaveTransfer fail without applying
	// anything. Used by tests to exercise rollback behavior.
	SaveErr error
}

func NewStore() *Store {
	return &Store{
		users:      map[string]models.User{},
		accounts:   map[string]models.Account{},
		byNumber:   map[string]string{},
		txns:       map[string]models.Transaction{},
		byRef:      map[string]string{},
		categories: map[string]models.TransactionCategory{},
	}
}

// Repositories exposes the store through the repository interfaces, one
// adapter per interface, mirroring the postgres factory.
type Repositories struct {
	Users        repo.Users
	Accounts     repo.Accounts
	Transactions repo.Transactions
	Categories   repo.Categories
	Ledger       repo.Ledger
	AuditLogs    repo.AuditLogs
}

func NewRepositories(s *Store) Repositories {
	return Repositories{
		Users:        usersRepo{s},
		Accounts:     accountsRepo{s},
		Transactions: txnsRepo{s},
		Categories:   categoriesRepo{s},
		Ledger:       ledgerRepo{s},
		AuditLogs:    auditRepo{s},
	}
}

// ---------------- Users ----------------

type usersRepo struct{ s *Store }

func (r usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r usersRepo) UpdatePINHash(ctx context.Context, id, pinHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.TransactionPINHash = pinHash
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

// ---------------- Accounts ----------------

type accountsRepo struct{ s *Store }

func (r accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.s.accounts[a.ID] = a
	r.s.byNumber[a.AccountNumber] = a.ID
	return a, nil
}

func (r accountsRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return models.Account{}, repo.ErrNotFound
	}
	return a, nil
}

func (r accountsRepo) GetByNumber(ctx context.Context, number string) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byNumber[number]
	if !ok {
		return models.Account{}, repo.ErrNotFound
	}
	return r.s.accounts[id], nil
}

func (r accountsRepo) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Account
	for _, a := range r.s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r accountsRepo) ExistsNumber(ctx context.Context, number string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.byNumber[number]
	return ok, nil
}

func (r accountsRepo) HasPrimary(ctx context.Context, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if a.UserID == userID && a.IsPrimary {
			return true, nil
		}
	}
	return false, nil
}

// ---------------- Transactions ----------------

type txnsRepo struct{ s *Store }

func (r txnsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.txns[id]
	if !ok {
		return models.Transaction{}, repo.ErrNotFound
	}
	return t, nil
}

func (r txnsRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []models.Transaction
	for _, t := range r.s.txns {
		if t.AccountID == accountID {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r txnsRepo) ExistsReference(ctx context.Context, ref string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.byRef[ref]
	return ok, nil
}

// ---------------- Categories ----------------

type categoriesRepo struct{ s *Store }

func (r categoriesRepo) GetOrCreate(ctx context.Context, name string) (models.TransactionCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[name]; ok {
		return c, nil
	}
	c := models.TransactionCategory{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	r.s.categories[name] = c
	return c, nil
}

// ---------------- Ledger ----------------

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) SaveTransfer(ctx context.Context, accounts []models.Account, txns []models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SaveErr != nil {
		return r.s.SaveErr
	}
	// Validate everything before touching state so a failure applies
	// nothing.
	for _, a := range accounts {
		if _, ok := r.s.accounts[a.ID]; !ok {
			return repo.ErrNotFound
		}
	}
	for _, t := range txns {
		if _, ok := r.s.byRef[t.ReferenceNumber]; ok {
			return fmt.Errorf("%w: %s", repo.ErrDuplicateReference, t.ReferenceNumber)
		}
	}
	now := time.Now().UTC()
	for _, a := range accounts {
		a.UpdatedAt = now
		r.s.accounts[a.ID] = a
	}
	for _, t := range txns {
		r.s.txns[t.ID] = t
		r.s.byRef[t.ReferenceNumber] = t.ID
	}
	return nil
}

// ---------------- AuditLogs ----------------

type auditRepo struct{ s *Store }

func (r auditRepo) Append(ctx context.Context, entry models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.s.audit = append(r.s.audit, entry)
	return nil
}

func (r auditRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := len(r.s.audit)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.AuditLog, 0, n)
	for i := len(r.s.audit) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.s.audit[i])
	}
	return out, nil
}

// AuditCount is a test helper.
func (s *Store) AuditCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.audit)
}

// TransactionCount is a test helper.
func (s *Store) TransactionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txns)
}
