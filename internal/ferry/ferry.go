/*

	Mnemonic:	ferry
	Abstract:	The ferry actor: dock-turn coordinator plus boarding loop,
				spec section 4.1. One goroutine per ferry, built the way
				tegu's main spawns one goroutine per manager over its own
				channel (main/tegu.go), except here the shared state is
				partitioned mutexes (portstate) rather than a single
				request channel, per spec section 5.

	Date:		29 July 2026
*/

package ferry

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/att/gopkgs/bleater"

	"github.com/imLinguin/ferry-simulation/internal/mailbox"
	"github.com/imLinguin/ferry-simulation/internal/permits"
	"github.com/imLinguin/ferry-simulation/internal/portstate"
	"github.com/imLinguin/ferry-simulation/internal/turntoken"
)

// RAMP mailbox priority classes/tags, spec section 2 and 3. Classes are
// zero-indexed for mailbox.Priority; tags keep the spec's literal values
// for log readability and for RampMessage.Tag on the wire.
const (
	TagExit        = 1
	TagVIPReq      = 2
	TagRegularReq  = 3
	classExit      = TagExit - 1
	classVIP       = TagVIPReq - 1
	classRegular   = TagRegularReq - 1
)

const pollInterval = 2 * time.Millisecond

// RampPayload is the RampMessage request/reply body carried as
// mailbox.Message.Payload.
type RampPayload struct {
	Weight   int
	IsVIP    bool
	Approved bool
}

// Config bundles the per-run constants from spec section 3 the ferry
// actor needs.
type Config struct {
	Capacity       int
	RampRegular    int
	RampVIP        int
	DepartInterval time.Duration
	GateDelayMax   time.Duration
	TravelTime     time.Duration
}

// Ferry is one ferry actor.
type Ferry struct {
	id  int
	cfg Config
	log *bleater.Bleater

	token        *turntoken.Token
	port         *portstate.Port
	currentFerry *portstate.CurrentFerry
	ferries      *portstate.Ferries
	stats        *portstate.Stats
	ramp         *mailbox.Priority
	rampSlots    [2]*permits.Pool // index 0 = regular, 1 = VIP

	earlyDepart atomic.Bool // set by supervisor's early-depart notification
}

// New builds a ferry actor. rampSlots must be shared across every ferry
// (it is reset, not replaced, at each gate open) and token must likewise
// be the single port-wide turn token.
func New(id int, cfg Config, log *bleater.Bleater, token *turntoken.Token, port *portstate.Port, currentFerry *portstate.CurrentFerry, ferries *portstate.Ferries, stats *portstate.Stats, ramp *mailbox.Priority, rampSlots [2]*permits.Pool) *Ferry {
	return &Ferry{
		id: id, cfg: cfg, log: log,
		token: token, port: port, currentFerry: currentFerry,
		ferries: ferries, stats: stats, ramp: ramp, rampSlots: rampSlots,
	}
}

// SignalEarlyDepart implements the "early-depart" shutdown notification
// from spec section 4.4: it only has effect while this ferry is actively
// boarding, which the boarding loop checks each iteration.
func (f *Ferry) SignalEarlyDepart() {
	f.earlyDepart.Store(true)
}

// Run executes the ferry's full WAITING -> BOARDING -> DEPARTED ->
// TRAVELING -> WAITING cycle until ctx is cancelled and the port has
// drained, per spec section 4.1 and 4.4.
func (f *Ferry) Run(ctx context.Context) {
	for {
		if !f.token.Acquire(ctx) {
			f.log.Baa(1, "ferry %d: shutting down while waiting for turn token", f.id)
			return
		}

		f.currentFerry.Set(f.id)
		f.ferries.BeginBoarding(f.id)
		f.log.Baa(1, "ferry %d: now at dock, boarding", f.id)

		f.earlyDepart.Store(false)

		if f.cfg.GateDelayMax > 0 {
			delay := time.Duration(rand.Int63n(int64(f.cfg.GateDelayMax)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}

		f.rampSlots[0].SetTo(int64(f.cfg.RampRegular))
		f.rampSlots[1].SetTo(int64(f.cfg.RampVIP))
		f.log.Baa(2, "ferry %d: gate open, ramp slots reg=%d vip=%d", f.id, f.cfg.RampRegular, f.cfg.RampVIP)

		f.board(ctx)

		f.currentFerry.Clear()
		f.ferries.SetStatus(f.id, portstate.Departed)
		f.token.Release()
		f.log.Baa(1, "ferry %d: departed dock", f.id)

		snapshot := f.ferries.Snapshot(f.id)
		if !f.port.IsOpen() && snapshot.PassengerCount == 0 {
			f.log.Baa(1, "ferry %d: port closed and empty, exiting", f.id)
			return
		}

		f.ferries.SetStatus(f.id, portstate.Traveling)
		f.travel(ctx)

		hadPassengers := f.ferries.ResetForReturn(f.id)
		if hadPassengers {
			f.stats.IncFerryTrips()
		}
		f.log.Baa(1, "ferry %d: returned to dock queue", f.id)

		select {
		case <-ctx.Done():
			if !f.port.IsOpen() {
				return
			}
		default:
		}
	}
}

// board runs the boarding-phase polling loop, spec section 4.1.
func (f *Ferry) board(ctx context.Context) {
	boardingStarted := time.Now()
	onRampUsage := 0
	rampCleanup := false

	for {
		// A port close also closes the gate: once every passenger has
		// either exited or is already draining, there is nothing left to
		// wait T_DEP for. This is in addition to the explicit
		// early-depart notification, which covers the case where the
		// port is still open but this cycle must end regardless.
		gateClose := f.earlyDepart.Load() || !f.port.IsOpen() || time.Since(boardingStarted) >= f.cfg.DepartInterval

		if msg, ok := f.ramp.TryReceive(classRegular); ok {
			switch msg.Tag {
			case TagExit:
				payload, _ := msg.Payload.(RampPayload)
				onRampUsage--
				f.ferries.AdmitPassenger(f.id, payload.Weight)
				f.stats.IncBoarded()
				f.log.Baa(2, "ferry %d: passenger %d boarded (weight=%d)", f.id, msg.PassengerID, payload.Weight)
				if !gateClose && !rampCleanup {
					if payload.IsVIP {
						f.rampSlots[1].Release()
					} else {
						f.rampSlots[0].Release()
					}
				}

			case TagVIPReq, TagRegularReq:
				payload, _ := msg.Payload.(RampPayload)
				snapshot := f.ferries.Snapshot(f.id)
				available := f.cfg.Capacity - snapshot.PassengerCount - onRampUsage
				approved := available > 0 && !gateClose
				if approved {
					onRampUsage++
				}
				f.ramp.Reply(msg.RequesterID, mailbox.Message{
					RequesterID: msg.RequesterID,
					PassengerID: msg.PassengerID,
					Payload:     RampPayload{Weight: payload.Weight, IsVIP: payload.IsVIP, Approved: approved},
				})
			}
		}

		if gateClose && onRampUsage == 0 && f.ramp.Empty(classRegular) {
			f.rampSlots[0].DrainToZero()
			f.rampSlots[1].DrainToZero()
			if !rampCleanup {
				rampCleanup = true
				continue // one more pass to confirm the mailbox stayed empty
			}
			f.log.Baa(2, "ferry %d: ramp drained, gate closed", f.id)
			return
		}

		select {
		case <-ctx.Done():
			// shutdown only raises should_depart; the drain contract still
			// applies, so we keep looping until ramp_empty && usage == 0.
		case <-time.After(pollInterval):
		}
	}
}

func (f *Ferry) travel(ctx context.Context) {
	start := time.Now()
	wait := func(d time.Duration) {
		select {
		case <-time.After(d):
		case <-ctx.Done():
		}
	}
	wait(f.cfg.TravelTime)
	wait(f.cfg.TravelTime)
	f.log.Baa(2, "ferry %d: round trip took %s", f.id, time.Since(start))
}
