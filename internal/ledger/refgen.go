package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	repo "github.com/securecipher/bank-backend/internal/repository"
)

// maxRefAttempts bounds the collision-retry loop. With a four digit
// suffix per timestamp second, hitting this means the reference space is
// effectively saturated and operators need to know.
const maxRefAttempts = 10

// ReferenceGenerator produces globally unique human-facing transaction
// references of the form TXN<yyyymmddhhmmss><4 random digits>. References
// are never reused: transaction rows are never deleted, so an existence
// check against the store is sufficient for uniqueness.
type ReferenceGenerator struct {
	txns repo.Transactions

	// Overridable for tests.
	now     func() time.Time
	suffix  func() int
	retries int
}

func NewReferenceGenerator(txns repo.Transactions) *ReferenceGenerator {
	return &ReferenceGenerator{
		txns:    txns,
		now:     time.Now,
		suffix:  func() int { return rand.Intn(10000) },
		retries: maxRefAttempts,
	}
}

// Generate returns a reference not yet present in the store, re-rolling
// the random suffix on collision up to the attempt cap.
func (g *ReferenceGenerator) Generate(ctx context.Context) (string, error) {
	ts := g.now().UTC().Format("20060102150405")
	for i := 0; i < g.retries; i++ {
		ref := fmt.Sprintf("TXN%s%04d", ts, g.suffix())
		exists, err := g.txns.ExistsReference(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("reference existence check: %w", err)
		}
		if !exists {
			return ref, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrReferenceExhausted, g.retries)
}
