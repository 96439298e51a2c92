package turntoken

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	tok := New()
	ctx := context.Background()
	require.True(t, tok.Acquire(ctx))
	tok.Release()
	require.True(t, tok.Acquire(ctx))
}

func TestOnlyOneHolderAtATime(t *testing.T) {
	tok := New()
	ctx := context.Background()
	require.True(t, tok.Acquire(ctx))

	acquired := make(chan struct{})
	go func() {
		tok.Acquire(context.Background())
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while the first still held the token")
	case <-time.After(20 * time.Millisecond):
	}

	tok.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never unblocked")
	}
}

func TestAcquireCancelled(t *testing.T) {
	tok := New()
	tok.Acquire(context.Background()) // token now held, never released

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, tok.Acquire(ctx))
}

func TestReleaseWithoutAcquirePanics(t *testing.T) {
	tok := New()
	tok.Acquire(context.Background())
	tok.Release()
	assert.Panics(t, tok.Release)
}
