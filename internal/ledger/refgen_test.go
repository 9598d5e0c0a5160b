package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/securecipher/bank-backend/internal/models"
)

// fakeTxns backs the generator with a caller-supplied existence check.
type fakeTxns struct {
	exists func(ref string) (bool, error)
}

func (f fakeTxns) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	return models.Transaction{}, errors.New("not implemented")
}

func (f fakeTxns) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	return nil, nil
}

func (f fakeTxns) ExistsReference(ctx context.Context, ref string) (bool, error) {
	return f.exists(ref)
}

func TestGenerateFormat(t *testing.T) {
	g := NewReferenceGenerator(fakeTxns{exists: func(string) (bool, error) { return false, nil }})
	g.now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	g.suffix = func() int { return 42 }

	ref, err := g.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ref != "TXN202503140926530042" {
		t.Fatalf("ref = %q, want TXN202503140926530042", ref)
	}
}

func TestGenerateRerollsOnCollision(t *testing.T) {
	taken := map[string]bool{"TXN202503140926531111": true}
	var checks []string
	g := NewReferenceGenerator(fakeTxns{exists: func(ref string) (bool, error) {
		checks = append(checks, ref)
		return taken[ref], nil
	}})
	g.now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	suffixes := []int{1111, 1111, 2222}
	g.suffix = func() int {
		s := suffixes[0]
		suffixes = suffixes[1:]
		return s
	}

	ref, err := g.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ref != "TXN202503140926532222" {
		t.Fatalf("ref = %q, want the re-rolled suffix", ref)
	}
	if len(checks) != 3 {
		t.Fatalf("existence checks = %d, want 3", len(checks))
	}
}

func TestGenerateExhaustion(t *testing.T) {
	calls := 0
	g := NewReferenceGenerator(fakeTxns{exists: func(string) (bool, error) {
		calls++
		return true, nil
	}})

	_, err := g.Generate(context.Background())
	if !errors.Is(err, ErrReferenceExhausted) {
		t.Fatalf("err = %v, want ErrReferenceExhausted", err)
	}
	if calls != maxRefAttempts {
		t.Fatalf("existence checks = %d, want %d", calls, maxRefAttempts)
	}
}

func TestGenerateStoreError(t *testing.T) {
	boom := errors.New("connection lost")
	g := NewReferenceGenerator(fakeTxns{exists: func(string) (bool, error) { return false, boom }})

	_, err := g.Generate(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}
