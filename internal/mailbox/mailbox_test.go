package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityOrdering(t *testing.T) {
	mb := New(3, 4)
	mb.Send(2, Message{Tag: 3, RequesterID: "regular"})
	mb.Send(1, Message{Tag: 2, RequesterID: "vip"})
	mb.Send(0, Message{Tag: 1, RequesterID: "exit"})

	m, ok := mb.TryReceive(2)
	require.True(t, ok)
	assert.Equal(t, "exit", m.RequesterID)

	m, ok = mb.TryReceive(2)
	require.True(t, ok)
	assert.Equal(t, "vip", m.RequesterID)

	m, ok = mb.TryReceive(2)
	require.True(t, ok)
	assert.Equal(t, "regular", m.RequesterID)

	_, ok = mb.TryReceive(2)
	assert.False(t, ok)
}

func TestFIFOWithinClass(t *testing.T) {
	mb := New(1, 4)
	mb.Send(0, Message{RequesterID: "first"})
	mb.Send(0, Message{RequesterID: "second"})

	m1, _ := mb.TryReceive(0)
	m2, _ := mb.TryReceive(0)
	assert.Equal(t, "first", m1.RequesterID)
	assert.Equal(t, "second", m2.RequesterID)
}

func TestReplyRoundTrip(t *testing.T) {
	mb := New(1, 4)
	mb.RegisterReply("req-1")
	defer mb.UnregisterReply("req-1")

	mb.Reply("req-1", Message{RequesterID: "req-1", PassengerID: 7})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m, ok := mb.AwaitReply(ctx, "req-1")
	require.True(t, ok)
	assert.Equal(t, 7, m.PassengerID)
}

func TestReplyToUnregisteredIsDropped(t *testing.T) {
	mb := New(1, 4)
	assert.NotPanics(t, func() {
		mb.Reply("ghost", Message{RequesterID: "ghost"})
	})
}

func TestAwaitReplyCancelled(t *testing.T) {
	mb := New(1, 4)
	mb.RegisterReply("req-2")
	defer mb.UnregisterReply("req-2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := mb.AwaitReply(ctx, "req-2")
	assert.False(t, ok)
}

func TestEmpty(t *testing.T) {
	mb := New(2, 4)
	assert.True(t, mb.Empty(1))
	mb.Send(1, Message{})
	assert.False(t, mb.Empty(1))
	assert.True(t, mb.Empty(0))
}
