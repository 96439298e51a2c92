/*

	Mnemonic:	permits
	Abstract:	Counting permits (RAMP_SLOTS[2], SECURITY_SLOTS) built on
				golang.org/x/sync/semaphore.Weighted. A Pool additionally
				tracks its own outstanding count so the ferry actor's
				gate-open "set RAMP_SLOTS[i] := value" (spec section 4.1,
				an atomic set-to-value rather than an increment) can be
				expressed safely without a retry loop, relying on I1 to
				guarantee no concurrent writer.

	Date:		29 July 2026
*/

package permits

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool is one counting permit pool.
type Pool struct {
	mu  sync.Mutex
	sem *semaphore.Weighted
	cur int64 // permits currently available; mutated only under mu
}

// New creates a pool seeded with initial permits. The semaphore is sized
// far above any working count, with the excess held back, so SetTo and
// Release can raise the count above initial.
func New(initial int64) *Pool {
	const ceiling = 1 << 62
	sem := semaphore.NewWeighted(ceiling)
	sem.TryAcquire(ceiling - initial)
	return &Pool{
		sem: sem,
		cur: initial,
	}
}

// Acquire blocks until one permit is available or ctx is cancelled.
func (p *Pool) Acquire(ctx context.Context) bool {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	p.mu.Lock()
	p.cur--
	p.mu.Unlock()
	return true
}

// TryAcquire attempts a non-blocking acquisition, used by the ferry
// boarding loop's ramp-drain diagnostics.
func (p *Pool) TryAcquire() bool {
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.mu.Lock()
	p.cur--
	p.mu.Unlock()
	return true
}

// Release returns one permit to the pool.
func (p *Pool) Release() {
	p.mu.Lock()
	p.cur++
	p.mu.Unlock()
	p.sem.Release(1)
}

// Available reports the current outstanding permit count (diagnostic
// only; not used for any correctness decision, since TOCTOU races against
// it are expected under concurrent load).
func (p *Pool) Available() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

// DrainToZero non-blocking-acquires every permit currently available and
// returns how many were taken. Used at boarding-loop termination to
// "drain any residual permits... via non-blocking decrement to zero"
// (spec section 4.1).
func (p *Pool) DrainToZero() int {
	n := 0
	for p.TryAcquire() {
		n++
	}
	return n
}

// SetTo drains the pool to zero and then releases value permits on the
// same underlying semaphore, implementing the gate-open "atomic
// set-to-value" operation. It must reuse the existing *semaphore.Weighted
// rather than swap in a new one: a passenger already parked in Acquire
// against this pool is a waiter registered on that specific object, and
// only a Release on it (not a freshly constructed semaphore with its own
// waiter list) will ever wake them. Spec section 4.1 notes this is safe
// without a retry loop because I1 (turn-token ownership) guarantees this
// is the only writer at gate-open time; callers must hold the turn token
// across this call.
func (p *Pool) SetTo(value int64) {
	p.DrainToZero()
	p.mu.Lock()
	defer p.mu.Unlock()
	if value > 0 {
		p.sem.Release(value)
	}
	p.cur = value
}
