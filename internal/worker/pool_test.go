package worker

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllJobsBeforeStop(t *testing.T) {
	p := NewPool(4)
	var done atomic.Int64
	const n = 100
	for i := 0; i < n; i++ {
		p.Submit(func() { done.Add(1) })
	}
	p.Stop()
	if got := done.Load(); got != n {
		t.Fatalf("completed jobs = %d, want %d", got, n)
	}
}
