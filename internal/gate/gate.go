// Package gate coordinates the read-snapshot, maintain, persist sequences of
// the widget service with a reader/writer lock that degrades under contention.
//
// Acquisition first tries without blocking, then waits up to the configured
// timeout. If the wait times out the caller gets an unheld Lease and no
// error, and proceeds without the lock. That trades consistency for
// availability exactly when contention is highest: results produced under an
// unheld lease are best-effort and must be reported as such. Cancelling the
// caller's context while waiting is different and yields ErrInterruptedWait.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrInterruptedWait is returned when the caller's context ends while waiting
// for the lock. Nothing was acquired; the request can be retried.
var ErrInterruptedWait = errors.New("interrupted while waiting for widget lock")

// DefaultMaxReaders bounds concurrent shared holders.
const DefaultMaxReaders = 1 << 10

// Gate is a reader/writer lock built on a weighted semaphore: readers take one
// unit, writers take all of them. Waiters are served in FIFO order, so a
// waiting writer holds back readers that arrive after it.
type Gate struct {
	sem     *semaphore.Weighted
	size    int64
	timeout time.Duration

	held     atomic.Int64
	degraded atomic.Int64
}

// New returns a Gate that waits at most timeout before degrading.
func New(timeout time.Duration, maxReaders int64) *Gate {
	if maxReaders < 1 {
		maxReaders = DefaultMaxReaders
	}
	return &Gate{sem: semaphore.NewWeighted(maxReaders), size: maxReaders, timeout: timeout}
}

// Lock acquires exclusive access.
func (g *Gate) Lock(ctx context.Context) (*Lease, error) {
	return g.acquire(ctx, g.size)
}

// RLock acquires shared access.
func (g *Gate) RLock(ctx context.Context) (*Lease, error) {
	return g.acquire(ctx, 1)
}

func (g *Gate) acquire(ctx context.Context, n int64) (*Lease, error) {
	if g.sem.TryAcquire(n) {
		return g.lease(n), nil
	}

	wctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	err := g.sem.Acquire(wctx, n)
	if err == nil {
		return g.lease(n), nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterruptedWait, ctx.Err())
	}
	g.degraded.Add(1)
	return &Lease{}, nil
}

func (g *Gate) lease(n int64) *Lease {
	g.held.Add(1)
	return &Lease{release: func() { g.sem.Release(n) }}
}

// Stats counts acquisitions since the Gate was created.
type Stats struct {
	Held     int64
	Degraded int64
}

func (g *Gate) Stats() Stats {
	return Stats{Held: g.held.Load(), Degraded: g.degraded.Load()}
}

// Lease is the result of an acquisition. An unheld lease means the caller is
// running without the lock after a timeout.
type Lease struct {
	once    sync.Once
	release func()
}

// Held reports whether the lock was actually acquired.
func (l *Lease) Held() bool { return l.release != nil }

// Release gives the lock back. It is safe to call more than once and on unheld leases.
func (l *Lease) Release() {
	if l.release == nil {
		return
	}
	l.once.Do(l.release)
}
