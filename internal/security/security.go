/*

	Mnemonic:	security
	Abstract:	The security allocator actor: spec section 4.3. Matches
				waiting passengers to gender-homogeneous stations with a
				bounded-overtaking ("frustration") rule. This is the sole
				mutator of the station table, so — exactly as res_mgr.go's
				inventory is only ever touched by the res_mgr goroutine —
				no internal locking is needed around `stations`.

	Date:		29 July 2026
*/

package security

import (
	"context"
	"math/rand"
	"time"

	"github.com/att/gopkgs/bleater"

	"github.com/imLinguin/ferry-simulation/internal/mailbox"
)

// Gender is one of the two genders a passenger or station may carry.
type Gender byte

const (
	None Gender = 0
	Male Gender = 'M'
	Female Gender = 'W'
)

// request is the allocator's internal view of a SecurityRequest (spec
// section 3); frustration is only meaningful once a request has been
// moved into the internal slot.
type request struct {
	requesterID string
	passengerID int
	gender      Gender
	frustration int
}

type slot struct {
	filled      bool
	requesterID string
	passengerID int
	finishAt    time.Time
}

type station struct {
	gender Gender
	slots  []slot
}

func (s *station) occupancy() int {
	n := 0
	for _, sl := range s.slots {
		if sl.filled {
			n++
		}
	}
	return n
}

// Manager is the security allocator actor (spec section 4.3).
type Manager struct {
	mbox *mailbox.Priority
	log  *bleater.Bleater

	stations       []station
	pending        *request
	internal       *request
	capacity       int
	initialCap     int
	maxFrustration int
	serviceMin     time.Duration
	serviceMax     time.Duration
}

// New builds the allocator with S stations of capacity K each.
func New(mbox *mailbox.Priority, log *bleater.Bleater, stations, stationCapacity, maxFrustration int, serviceMin, serviceMax time.Duration) *Manager {
	st := make([]station, stations)
	for i := range st {
		st[i] = station{slots: make([]slot, stationCapacity)}
	}
	initial := stations * stationCapacity
	return &Manager{
		mbox:           mbox,
		log:            log,
		stations:       st,
		capacity:       initial,
		initialCap:     initial,
		maxFrustration: maxFrustration,
		serviceMin:     serviceMin,
		serviceMax:     serviceMax,
	}
}

// Mailbox priority classes: SECURITY carries only inbound tag 1.
const (
	classRequest = 0
)

// Request is what a passenger sends down the SECURITY mailbox.
type Request struct {
	RequesterID string
	PassengerID int
	Gender      Gender
}

// Send registers the reply slot for req.RequesterID and then posts a
// security request. The caller should AwaitReply/UnregisterReply
// afterward.
func Send(mbox *mailbox.Priority, req Request) {
	mbox.RegisterReply(req.RequesterID)
	mbox.Send(classRequest, mailbox.Message{
		Tag:         1,
		RequesterID: req.RequesterID,
		PassengerID: req.PassengerID,
		Payload:     req.Gender,
	})
}

// Run drives the allocator's main loop until ctx is cancelled. It never
// returns an error: a cancelled context is a clean shutdown, matching the
// "mailbox removed / invalid: treated as shutdown" rule in spec section
// 7.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.log.Baa(1, "security manager shutting down")
			return
		default:
		}

		m.ingress(ctx)
		m.place()
		m.sweep()

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// busy reports whether the allocator has any in-flight work, which
// governs whether ingress blocks (spec section 4.3 step 1).
func (m *Manager) busy() bool {
	return m.pending != nil || m.internal != nil || m.capacity < m.initialCap
}

func (m *Manager) ingress(ctx context.Context) {
	var msg mailbox.Message
	var ok bool
	if m.busy() {
		msg, ok = m.mbox.TryReceive(classRequest)
	} else {
		msg, ok = m.mbox.Receive(ctx, classRequest)
	}
	if !ok {
		return
	}
	gender, _ := msg.Payload.(Gender)
	m.pending = &request{
		requesterID: msg.RequesterID,
		passengerID: msg.PassengerID,
		gender:      gender,
	}
}

// place implements spec section 4.3 step 2 (a) and (b).
func (m *Manager) place() {
	if m.internal != nil {
		if m.tryInsert(m.internal) {
			m.log.Baa(2, "security: placed internal request %s (frustration=%d)", m.internal.requesterID, m.internal.frustration)
			m.internal = nil
			m.capacity--
		} else if m.internal.frustration >= m.maxFrustration {
			return // skip placement this round; go straight to the completion sweep
		}
	}

	if m.pending == nil {
		return
	}
	// if internal is still set here, its frustration is necessarily below
	// the bound: the block above already returned otherwise.

	if m.tryInsert(m.pending) {
		m.log.Baa(2, "security: placed pending request %s", m.pending.requesterID)
		m.capacity--
		if m.internal != nil {
			// internal existed and was not placed this round: it was overtaken.
			m.internal.frustration++
			m.log.Baa(2, "security: internal request %s overtaken (frustration=%d)", m.internal.requesterID, m.internal.frustration)
		}
		m.pending = nil
		return
	}

	if m.internal == nil {
		m.internal = m.pending
		m.pending = nil
	}
	// else: pending stays pending for next round (internal occupies the slot).
}

// tryInsert is try_insert from spec section 4.3: scan stations in order,
// admit to the first that can take this gender.
func (m *Manager) tryInsert(req *request) bool {
	for i := range m.stations {
		st := &m.stations[i]
		occ := st.occupancy()
		if occ == 0 {
			idx := m.firstEmptySlot(st)
			st.gender = req.gender
			st.slots[idx] = slot{
				filled:      true,
				requesterID: req.requesterID,
				passengerID: req.passengerID,
				finishAt:    time.Now().Add(m.serviceTime()),
			}
			return true
		}
		if st.gender == req.gender && occ < len(st.slots) {
			idx := m.firstEmptySlot(st)
			st.slots[idx] = slot{
				filled:      true,
				requesterID: req.requesterID,
				passengerID: req.passengerID,
				finishAt:    time.Now().Add(m.serviceTime()),
			}
			return true
		}
	}
	return false
}

func (m *Manager) firstEmptySlot(st *station) int {
	for i, sl := range st.slots {
		if !sl.filled {
			return i
		}
	}
	panic("security: tryInsert admitted into a station with no empty slot")
}

func (m *Manager) serviceTime() time.Duration {
	if m.serviceMax <= m.serviceMin {
		return m.serviceMin
	}
	span := m.serviceMax - m.serviceMin
	return m.serviceMin + time.Duration(rand.Int63n(int64(span)))
}

// sweep is the completion sweep from spec section 4.3 step 3.
func (m *Manager) sweep() {
	now := time.Now()
	for i := range m.stations {
		st := &m.stations[i]
		for j := range st.slots {
			sl := &st.slots[j]
			if !sl.filled || sl.finishAt.After(now) {
				continue
			}
			m.mbox.Reply(sl.requesterID, mailbox.Message{
				Tag:         0,
				RequesterID: sl.requesterID,
				PassengerID: sl.passengerID,
			})
			*sl = slot{}
			m.capacity++
			if st.occupancy() == 0 {
				st.gender = None
			}
		}
	}
}
