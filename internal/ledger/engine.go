// Package ledger implements the funds transfer engine: validation,
// per-account locking, double-entry transaction records and the audit
// trail. The engine is stateless across calls; all durable state lives
// behind the repository interfaces.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/securecipher/bank-backend/internal/metrics"
	"github.com/securecipher/bank-backend/internal/models"
	"github.com/securecipher/bank-backend/internal/money"
	repo "github.com/securecipher/bank-backend/internal/repository"
	"github.com/securecipher/bank-backend/internal/worker"
)

// transferCategory is the category name stamped on both legs.
const transferCategory = "Transfer"

// saveAttempts bounds retries of the atomic ledger write before the
// operation surfaces ErrTransferFailed.
const saveAttempts = 3

// SecretVerifier checks a user's transaction authorization secret (PIN).
// A failed match must return an error; the engine maps any failure to
// ErrAuthorizationFailed without inspecting it.
type SecretVerifier interface {
	VerifySecret(ctx context.Context, userID, secret string) error
}

type TransferRequest struct {
	// UserID is the requesting identity; it must own the source account.
	UserID                   string
	SourceAccountID          string
	DestinationAccountNumber string
	Amount                   money.Amount
	Description              string
	PIN                      string
	// Meta carries origination metadata stamped on transactions and
	// audit entries.
	Meta models.AuditMeta
}

type TransferResult struct {
	DebitTransaction  models.Transaction
	CreditTransaction models.Transaction
	SourceBalance     money.Amount
}

type Engine struct {
	users    repo.Users
	accounts repo.Accounts
	txns     repo.Transactions
	cats     repo.Categories
	store    repo.Ledger
	audit    repo.AuditLogs
	verifier SecretVerifier
	guard    *Guard
	refs     *ReferenceGenerator
	wp       *worker.Pool
	log      *slog.Logger
}

type EngineDeps struct {
	Users     repo.Users
	Accounts  repo.Accounts
	Txns      repo.Transactions
	Cats      repo.Categories
	Store     repo.Ledger
	Audit     repo.AuditLogs
	Verifier  SecretVerifier
	Guard     *Guard
	Pool      *worker.Pool
	Log       *slog.Logger
}

func NewEngine(d EngineDeps) *Engine {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Engine{
		users:    d.Users,
		accounts: d.Accounts,
		txns:     d.Txns,
		cats:     d.Cats,
		store:    d.Store,
		audit:    d.Audit,
		verifier: d.Verifier,
		guard:    d.Guard,
		refs:     NewReferenceGenerator(d.Txns),
		wp:       d.Pool,
		log:      d.Log,
	}
}

// Transfer moves Amount from the caller's source account to the account
// identified by DestinationAccountNumber as one atomic unit: either both
// balances move and both transaction rows exist in COMPLETED state, or
// nothing changes. Validation runs against a pre-lock snapshot as an
// optimization; the checks repeated under the guard are authoritative.
func (e *Engine) Transfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	res, err := e.transfer(ctx, req)
	if err != nil {
		metrics.TransfersFailed.WithLabelValues(Code(err)).Inc()
		e.auditAsync(req.UserID, models.AuditTransaction,
			fmt.Sprintf("Transfer of %s to %s failed", req.Amount, req.DestinationAccountNumber),
			req.Meta, map[string]any{"error": Code(err)})
		return TransferResult{}, err
	}
	metrics.TransfersTotal.Inc()
	return res, nil
}

func (e *Engine) transfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	// Validation order is part of the contract: first failure wins.
	if !req.Amount.IsPositive() {
		return TransferResult{}, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	src, srcErr := e.accounts.GetByID(ctx, req.SourceAccountID)
	if srcErr != nil && !errors.Is(srcErr, repo.ErrNotFound) {
		return TransferResult{}, fmt.Errorf("load source account: %w", srcErr)
	}
	dst, dstErr := e.accounts.GetByNumber(ctx, req.DestinationAccountNumber)
	if dstErr != nil && !errors.Is(dstErr, repo.ErrNotFound) {
		return TransferResult{}, fmt.Errorf("load destination account: %w", dstErr)
	}

	if srcErr == nil && dstErr == nil && src.ID == dst.ID {
		return TransferResult{}, ErrSelfTransfer
	}
	if srcErr != nil || src.UserID != req.UserID || src.Status != models.AccountActive {
		return TransferResult{}, ErrSourceUnavailable
	}
	if dstErr != nil || dst.Status != models.AccountActive {
		return TransferResult{}, ErrDestinationUnavailable
	}
	if err := e.verifier.VerifySecret(ctx, req.UserID, req.PIN); err != nil {
		return TransferResult{}, ErrAuthorizationFailed
	}
	if src.AvailableBalance.LessThan(req.Amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	// Cancellation is honored only up to here; once the guard is held the
	// atomic unit runs to completion even if the caller goes away.
	if err := ctx.Err(); err != nil {
		return TransferResult{}, err
	}
	ctx = context.WithoutCancel(ctx)
	release := e.guard.AcquirePair(src.ID, dst.ID)
	defer release()

	// Re-read and re-validate under lock: the pre-lock snapshot may have
	// lost a race against a concurrent transfer on either account.
	// Accounts are never deleted, so a storage fault here is transient,
	// not an account condition.
	src, err := e.accounts.GetByID(ctx, src.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TransferResult{}, ErrSourceUnavailable
		}
		return TransferResult{}, fmt.Errorf("%w: reloading source account: %v", ErrTransferFailed, err)
	}
	dst, err = e.accounts.GetByNumber(ctx, req.DestinationAccountNumber)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TransferResult{}, ErrDestinationUnavailable
		}
		return TransferResult{}, fmt.Errorf("%w: reloading destination account: %v", ErrTransferFailed, err)
	}
	if src.Status != models.AccountActive {
		return TransferResult{}, ErrSourceUnavailable
	}
	if dst.Status != models.AccountActive {
		return TransferResult{}, ErrDestinationUnavailable
	}
	if src.AvailableBalance.LessThan(req.Amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	srcBefore, dstBefore := src.Balance, dst.Balance
	src.Balance = src.Balance.Sub(req.Amount)
	src.AvailableBalance = src.AvailableBalance.Sub(req.Amount)
	dst.Balance = dst.Balance.Add(req.Amount)
	dst.AvailableBalance = dst.AvailableBalance.Add(req.Amount)

	cat, err := e.cats.GetOrCreate(ctx, transferCategory)
	if err != nil {
		return TransferResult{}, fmt.Errorf("%w: category lookup: %v", ErrTransferFailed, err)
	}
	debitRef, creditRef, err := e.referencePair(ctx)
	if err != nil {
		return TransferResult{}, err
	}

	now := time.Now().UTC()
	debit := models.Transaction{
		ID:                        uuid.NewString(),
		AccountID:                 src.ID,
		Type:                      models.TxnDebit,
		CategoryID:                cat.ID,
		Amount:                    req.Amount,
		BalanceBefore:             srcBefore,
		BalanceAfter:              src.Balance,
		Description:               req.Description,
		ReferenceNumber:           debitRef,
		Status:                    models.TxnCompleted,
		CounterpartyAccountNumber: dst.AccountNumber,
		CounterpartyName:          e.holderName(ctx, dst.UserID),
		IPAddress:                 req.Meta.IPAddress,
		UserAgent:                 req.Meta.UserAgent,
		CreatedAt:                 now,
	}
	credit := models.Transaction{
		ID:                        uuid.NewString(),
		AccountID:                 dst.ID,
		Type:                      models.TxnCredit,
		CategoryID:                cat.ID,
		Amount:                    req.Amount,
		BalanceBefore:             dstBefore,
		BalanceAfter:              dst.Balance,
		Description:               req.Description,
		ReferenceNumber:           creditRef,
		Status:                    models.TxnCompleted,
		CounterpartyAccountNumber: src.AccountNumber,
		CounterpartyName:          e.holderName(ctx, src.UserID),
		IPAddress:                 req.Meta.IPAddress,
		UserAgent:                 req.Meta.UserAgent,
		CreatedAt:                 now,
	}

	// One atomic commit of both account rows and both transaction rows.
	// Transient storage failures get a bounded retry; a failed commit
	// leaves the store untouched, so no compensating writes are needed.
	accounts := []models.Account{src, dst}
	txns := []models.Transaction{debit, credit}
	for attempt := 1; ; attempt++ {
		err = e.store.SaveTransfer(ctx, accounts, txns)
		if err == nil {
			break
		}
		if attempt == saveAttempts {
			e.log.Error("ledger save failed", "attempts", attempt, "err", err)
			return TransferResult{}, fmt.Errorf("%w: persisting ledger rows: %v", ErrTransferFailed, err)
		}
		if errors.Is(err, repo.ErrDuplicateReference) {
			// A disjoint transfer won the same reference in this second;
			// retrying with the same pair would hit the constraint again.
			var refErr error
			if debit.ReferenceNumber, credit.ReferenceNumber, refErr = e.referencePair(ctx); refErr != nil {
				return TransferResult{}, refErr
			}
			txns = []models.Transaction{debit, credit}
		}
		e.log.Warn("ledger save retry", "attempt", attempt, "err", err)
	}

	e.auditTransfer(ctx, req, src, dst, debit.ReferenceNumber)

	return TransferResult{
		DebitTransaction:  debit,
		CreditTransaction: credit,
		SourceBalance:     src.Balance,
	}, nil
}

// referencePair generates the references for both legs. Neither leg is
// persisted while this runs, so the generator's existence check cannot
// see a collision between the two; that case is re-rolled here.
func (e *Engine) referencePair(ctx context.Context) (debitRef, creditRef string, err error) {
	if debitRef, err = e.refs.Generate(ctx); err != nil {
		return "", "", err
	}
	if creditRef, err = e.refs.Generate(ctx); err != nil {
		return "", "", err
	}
	for creditRef == debitRef {
		if creditRef, err = e.refs.Generate(ctx); err != nil {
			return "", "", err
		}
	}
	return debitRef, creditRef, nil
}

// auditTransfer appends the completed-transfer audit entry before the
// success response is returned. A write failure does not invalidate the
// transfer; it is surfaced to operators via log and metric.
func (e *Engine) auditTransfer(ctx context.Context, req TransferRequest, src, dst models.Account, ref string) {
	userID := req.UserID
	entry := models.AuditLog{
		ID:          uuid.NewString(),
		UserID:      &userID,
		Action:      models.AuditTransaction,
		Description: fmt.Sprintf("Transfer of %s to %s", req.Amount, dst.AccountNumber),
		IPAddress:   req.Meta.IPAddress,
		UserAgent:   req.Meta.UserAgent,
		Details: map[string]any{
			"reference":           ref,
			"source_account":      src.AccountNumber,
			"destination_account": dst.AccountNumber,
			"amount":              req.Amount.String(),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		e.log.Error("audit append failed", "action", entry.Action, "err", fmt.Errorf("%w: %v", ErrAuditWriteFailed, err))
	}
}

// auditAsync queues an audit entry nothing waits on.
func (e *Engine) auditAsync(userID, action, description string, meta models.AuditMeta, details map[string]any) {
	if e.wp == nil {
		return
	}
	entry := models.AuditLog{
		ID:          uuid.NewString(),
		UserID:      &userID,
		Action:      action,
		Description: description,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
	}
	e.wp.Submit(func() {
		if err := e.audit.Append(context.Background(), entry); err != nil {
			metrics.AuditWriteFailures.Inc()
			e.log.Error("audit append failed", "action", entry.Action, "err", err)
		}
	})
}

func (e *Engine) holderName(ctx context.Context, userID string) string {
	u, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Username
}
