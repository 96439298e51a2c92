/*

	Mnemonic:	mailbox
	Abstract:	A small priority mailbox generalising tegu's ipc.Chmsg
				request/response-channel idiom (Msg_type, Req_data,
				Response_data, Response_ch) to carry a numeric priority tag
				and support biased reception: "receive the highest-priority
				message at or below a bound, FIFO within a class".

				SECURITY uses one class. RAMP uses three (EXIT, VIP_REQ,
				REGULAR_REQ in that priority order).

	Date:		29 July 2026
*/

package mailbox

import (
	"context"
	"sync"
	"time"
)

// Message mirrors ipc.Chmsg's shape: a tagged request with an optional
// typed payload, and reply routing by requester ID rather than by a
// channel pointer embedded in the message (so replies can be delivered
// even if the sender registered its reply slot after send).
type Message struct {
	Tag         int
	RequesterID string
	PassengerID int
	Payload     interface{}
}

// pollInterval matches the "cooperative 1-10ms polling" pace spec section
// 4.1 and 4.3 both call for; there is no timer primitive in the core, only
// wall-clock polling (spec section 5).
const pollInterval = 2 * time.Millisecond

// Priority is a fixed number of FIFO classes, numbered 0 (highest
// priority) upward, plus a reply registry keyed by requester ID.
type Priority struct {
	classes []chan Message

	mu       sync.Mutex
	replies  map[string]chan Message
}

// New builds a mailbox with classCount priority classes, each buffered to
// bufSize so a send blocks the posting actor only when that class already
// holds bufSize messages (teacher's
// fq_ch/rmgr_ch channels are likewise buffered to avoid producer
// deadlock).
func New(classCount, bufSize int) *Priority {
	p := &Priority{
		classes: make([]chan Message, classCount),
		replies: make(map[string]chan Message),
	}
	for i := range p.classes {
		p.classes[i] = make(chan Message, bufSize)
	}
	return p
}

// Send enqueues msg into the given priority class. class must be in
// [0, classCount).
func (p *Priority) Send(class int, msg Message) {
	p.classes[class] <- msg
}

// TryReceive scans classes 0..bound (inclusive) in priority order and
// returns the first available message without blocking. bound lets a
// receiver ask for "≤ REGULAR" the way spec section 4.1 step 2 does.
func (p *Priority) TryReceive(bound int) (Message, bool) {
	for class := 0; class <= bound && class < len(p.classes); class++ {
		select {
		case m := <-p.classes[class]:
			return m, true
		default:
		}
	}
	return Message{}, false
}

// Empty reports whether every class up to and including bound currently
// has no buffered message — used by the ferry boarding loop's termination
// check (gate_close && on_ramp_usage == 0 && ramp_mailbox_empty).
func (p *Priority) Empty(bound int) bool {
	for class := 0; class <= bound && class < len(p.classes); class++ {
		if len(p.classes[class]) > 0 {
			return false
		}
	}
	return true
}

// Receive blocks (polling at pollInterval, there being no timer primitive
// in the core) until a message arrives in classes 0..bound, or ctx is
// cancelled by the shutdown notification.
func (p *Priority) Receive(ctx context.Context, bound int) (Message, bool) {
	for {
		if m, ok := p.TryReceive(bound); ok {
			return m, true
		}
		select {
		case <-ctx.Done():
			return Message{}, false
		case <-time.After(pollInterval):
		}
	}
}

// RegisterReply allocates the reply slot a requester will block on,
// keyed by its own unique requester ID — the mailbox equivalent of
// ipc.Chmsg's Response_ch, but addressed rather than embedded.
func (p *Priority) RegisterReply(requesterID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies[requesterID] = make(chan Message, 1)
}

// UnregisterReply releases a reply slot. Safe to call even if no reply
// ever arrived (e.g. the passenger abandoned the wait on shutdown).
func (p *Priority) UnregisterReply(requesterID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.replies, requesterID)
}

// Reply delivers msg to the requester's registered reply slot, tagged by
// requesterID per spec section 2 ("reply tagged by requester ID"). A
// reply to an unregistered or already-abandoned requester is dropped,
// not an error — the requester may have exited on shutdown.
func (p *Priority) Reply(requesterID string, msg Message) {
	p.mu.Lock()
	ch, ok := p.replies[requesterID]
	p.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
	}
}

// AwaitReply blocks until the reply for requesterID arrives or ctx is
// cancelled. The caller must have called RegisterReply first and should
// UnregisterReply afterward (defer is the usual pattern).
func (p *Priority) AwaitReply(ctx context.Context, requesterID string) (Message, bool) {
	p.mu.Lock()
	ch, ok := p.replies[requesterID]
	p.mu.Unlock()
	if !ok {
		return Message{}, false
	}
	select {
	case m := <-ch:
		return m, true
	case <-ctx.Done():
		return Message{}, false
	}
}
