/*

	Mnemonic:	turntoken
	Abstract:	The dock turn token: a binary acquisition guaranteeing at most
				one ferry is "at dock" (spec section 2, invariant I1). Built
				the same way tegu builds its single-writer channels in
				main/tegu.go — a channel is the primitive, not a sync.Mutex,
				so acquisition composes with a cancellation context via
				select.

	Date:		29 July 2026
*/

package turntoken

import "context"

// Token is a 1-buffered channel seeded full; holding the single token is
// "at dock".
type Token struct {
	slot chan struct{}
}

// New returns a token that is immediately available.
func New() *Token {
	t := &Token{slot: make(chan struct{}, 1)}
	t.slot <- struct{}{}
	return t
}

// Acquire blocks until the token is available or ctx is cancelled.
func (t *Token) Acquire(ctx context.Context) bool {
	select {
	case <-t.slot:
		return true
	case <-ctx.Done():
		return false
	}
}

// Release returns the token. Releasing a token not held is a programmer
// error and panics, the way sending on a full unbuffered channel would
// deadlock the caller instead of silently corrupting state.
func (t *Token) Release() {
	select {
	case t.slot <- struct{}{}:
	default:
		panic("turntoken: release without matching acquire")
	}
}
