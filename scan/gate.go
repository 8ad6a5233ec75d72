package scan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate caps the number of probes in flight. Waiters are admitted in FIFO order.
type Gate struct {
	capacity int
	sem      *semaphore.Weighted
	active   atomic.Int64
	peak     atomic.Int64
}

func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	n := g.active.Add(1)
	for {
		peak := g.peak.Load()
		if n <= peak || g.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return nil
}

func (g *Gate) Release() {
	g.active.Add(-1)
	g.sem.Release(1)
}

func (g *Gate) Capacity() int {
	return g.capacity
}

// Active returns the number of current holders.
func (g *Gate) Active() int {
	return int(g.active.Load())
}

// Peak returns the highest number of simultaneous holders seen so far.
func (g *Gate) Peak() int {
	return int(g.peak.Load())
}
