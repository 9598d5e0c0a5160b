package ledger

import "sync"

// Guard serializes balance mutations per account id. The lock table is
// process-wide, created at service start and never torn down; entries are
// added on first use and kept for the life of the process, which keeps
// acquisition race-free without an eviction protocol. Swapping this for a
// distributed lock service means replacing the Guard, not its callers.
type Guard struct {
	locks sync.Map // account id -> *sync.Mutex
}

func NewGuard() *Guard { return &Guard{} }

func (g *Guard) mutex(accountID string) *sync.Mutex {
	if m, ok := g.locks.Load(accountID); ok {
		return m.(*sync.Mutex)
	}
	m, _ := g.locks.LoadOrStore(accountID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// Acquire locks a single account and returns its release func. Callers
// must defer the release so every exit path unlocks.
func (g *Guard) Acquire(accountID string) func() {
	m := g.mutex(accountID)
	m.Lock()
	return m.Unlock
}

// AcquirePair locks two accounts in ascending id order so that two
// transfers referencing the same pair in opposite directions can never
// deadlock. The returned release unlocks both in reverse order.
func (g *Guard) AcquirePair(a, b string) func() {
	if b < a {
		a, b = b, a
	}
	first := g.mutex(a)
	second := g.mutex(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
