package permits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	p := New(2)
	ctx := context.Background()

	require.True(t, p.Acquire(ctx))
	require.True(t, p.Acquire(ctx))
	assert.False(t, p.TryAcquire())

	p.Release()
	assert.True(t, p.TryAcquire())
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	p := New(1)
	require.True(t, p.TryAcquire())

	done := make(chan struct{})
	go func() {
		ctx := context.Background()
		p.Acquire(ctx)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("acquire returned before a permit was released")
	case <-time.After(20 * time.Millisecond):
	}

	p.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire never unblocked after release")
	}
}

func TestDrainToZero(t *testing.T) {
	p := New(3)
	n := p.DrainToZero()
	assert.Equal(t, 3, n)
	assert.False(t, p.TryAcquire())
	assert.Equal(t, int64(0), p.Available())
}

func TestSetTo(t *testing.T) {
	p := New(1)
	p.SetTo(4)
	assert.Equal(t, int64(4), p.Available())
	n := p.DrainToZero()
	assert.Equal(t, 4, n)
}

// TestSetToWakesExistingWaiter guards against reconstructing the
// underlying semaphore on SetTo: a goroutine already parked in Acquire
// must be woken by the same gate-open call, not orphaned forever.
func TestSetToWakesExistingWaiter(t *testing.T) {
	p := New(0)

	done := make(chan struct{})
	go func() {
		p.Acquire(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("acquire returned before any permit existed")
	case <-time.After(20 * time.Millisecond):
	}

	p.SetTo(1)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter parked before SetTo was never woken")
	}
}

func TestAcquireCancelled(t *testing.T) {
	p := New(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, p.Acquire(ctx))
}
