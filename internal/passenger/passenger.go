/*

	Mnemonic:	passenger
	Abstract:	The passenger actor: spec section 4.2. Checkin -> baggage ->
				security -> ramp -> boarded, or an early exit on shutdown.
				Each stage is a plain method so the drain contract (section
				4.4: release only what you hold, exit cleanly) is visible at
				each suspension point, the way agent.go's request loop
				checks both its data and control channel at one select.

	Date:		29 July 2026
*/

package passenger

import (
	"context"
	"math/rand"
	"time"

	"github.com/att/gopkgs/bleater"

	"github.com/imLinguin/ferry-simulation/internal/ferry"
	"github.com/imLinguin/ferry-simulation/internal/idgen"
	"github.com/imLinguin/ferry-simulation/internal/mailbox"
	"github.com/imLinguin/ferry-simulation/internal/permits"
	"github.com/imLinguin/ferry-simulation/internal/portstate"
	"github.com/imLinguin/ferry-simulation/internal/security"
)

const checkPollInterval = 5 * time.Millisecond

// Config bundles the per-run constants from spec section 3 a passenger
// needs to generate its ticket.
type Config struct {
	BagWeightMin   int
	BagWeightMax   int
	VIPProbability float64
	BoardTime      time.Duration
}

// Passenger is one passenger actor.
type Passenger struct {
	id  int
	cfg Config
	log *bleater.Bleater

	currentFerry *portstate.CurrentFerry
	ferries      *portstate.Ferries
	stats        *portstate.Stats

	securityMbox  *mailbox.Priority
	securitySlots *permits.Pool

	rampMbox  *mailbox.Priority
	rampSlots [2]*permits.Pool // index 0 = regular, 1 = VIP

	gender   security.Gender
	vip      bool
	bagWeight int
	requesterID string
}

// New builds a passenger actor with a freshly rolled ticket (spec section
// 4.2 step 1).
func New(id int, cfg Config, log *bleater.Bleater, currentFerry *portstate.CurrentFerry, ferries *portstate.Ferries, stats *portstate.Stats, securityMbox *mailbox.Priority, securitySlots *permits.Pool, rampMbox *mailbox.Priority, rampSlots [2]*permits.Pool) *Passenger {
	p := &Passenger{
		id: id, cfg: cfg, log: log,
		currentFerry: currentFerry, ferries: ferries, stats: stats,
		securityMbox: securityMbox, securitySlots: securitySlots,
		rampMbox: rampMbox, rampSlots: rampSlots,
		requesterID: idgen.NewRequesterID(),
	}
	if rand.Intn(2) == 0 {
		p.gender = security.Male
	} else {
		p.gender = security.Female
	}
	p.vip = rand.Float64() < cfg.VIPProbability
	span := cfg.BagWeightMax - cfg.BagWeightMin
	if span > 0 {
		p.bagWeight = cfg.BagWeightMin + rand.Intn(span+1)
	} else {
		p.bagWeight = cfg.BagWeightMin
	}
	return p
}

// Run executes the passenger's full lifecycle until it boards or ctx is
// cancelled (the port-closed notification of spec section 4.4).
func (p *Passenger) Run(ctx context.Context) {
	p.log.Baa(2, "passenger %d: gender=%c vip=%v bag=%d", p.id, p.gender, p.vip, p.bagWeight)

	ferryID, ok := p.checkBaggage(ctx)
	if !ok {
		p.log.Baa(1, "passenger %d: exiting before security (shutdown)", p.id)
		return
	}
	_ = ferryID // acceptance is against whichever ferry was current; not bound further

	if !p.clearSecurity(ctx) {
		p.log.Baa(1, "passenger %d: exiting during security wait (shutdown)", p.id)
		return
	}

	if !p.boardRamp(ctx) {
		p.log.Baa(1, "passenger %d: exiting during ramp wait (shutdown)", p.id)
		return
	}

	p.log.Baa(1, "passenger %d: boarded", p.id)
}

// checkBaggage is spec section 4.2 step 2. It is not bound to the ferry
// that accepted it: acceptance is evaluated against whichever ferry is
// current at the moment of the check (spec section 9's documented
// baggage/ramp timing divergence).
func (p *Passenger) checkBaggage(ctx context.Context) (ferryID int, ok bool) {
	for {
		select {
		case <-ctx.Done():
			return 0, false
		default:
		}

		id := p.currentFerry.Get()
		if id == -1 {
			if !sleepOrDone(ctx, checkPollInterval) {
				return 0, false
			}
			continue
		}

		snapshot := p.ferries.Snapshot(id)
		if p.bagWeight <= snapshot.BaggageLimit {
			return id, true
		}

		p.stats.IncRejectedBaggage()
		p.log.Baa(2, "passenger %d: bag %d rejected by ferry %d (limit %d)", p.id, p.bagWeight, id, snapshot.BaggageLimit)
		if !sleepOrDone(ctx, checkPollInterval) {
			return 0, false
		}
	}
}

// clearSecurity is spec section 4.2 step 3.
func (p *Passenger) clearSecurity(ctx context.Context) bool {
	if !p.securitySlots.Acquire(ctx) {
		return false
	}
	held := true
	defer func() {
		if held {
			p.securitySlots.Release()
		}
	}()

	security.Send(p.securityMbox, security.Request{
		RequesterID: p.requesterID,
		PassengerID: p.id,
		Gender:      p.gender,
	})
	defer p.securityMbox.UnregisterReply(p.requesterID)

	_, ok := p.securityMbox.AwaitReply(ctx, p.requesterID)
	if !ok {
		return false
	}
	p.securitySlots.Release()
	held = false
	return true
}

// boardRamp is spec section 4.2 step 4.
func (p *Passenger) boardRamp(ctx context.Context) bool {
	pool := p.rampSlots[0]
	tag := ferry.TagRegularReq
	if p.vip {
		pool = p.rampSlots[1]
		tag = ferry.TagVIPReq
	}

	for {
		if !pool.Acquire(ctx) {
			return false
		}

		p.rampMbox.RegisterReply(p.requesterID)
		p.rampMbox.Send(tag-1, mailbox.Message{
			Tag:         tag,
			RequesterID: p.requesterID,
			PassengerID: p.id,
			Payload:     ferry.RampPayload{Weight: p.bagWeight, IsVIP: p.vip},
		})

		msg, ok := p.rampMbox.AwaitReply(ctx, p.requesterID)
		p.rampMbox.UnregisterReply(p.requesterID)
		if !ok {
			pool.Release()
			return false
		}

		reply, _ := msg.Payload.(ferry.RampPayload)
		if !reply.Approved {
			pool.Release()
			if !sleepOrDone(ctx, checkPollInterval) {
				return false
			}
			continue
		}

		if !sleepOrDone(ctx, p.cfg.BoardTime) {
			// shutdown mid-board-time: we still hold the ramp permit and
			// have been admitted, so we still owe an EXIT to drain cleanly.
		}

		p.rampMbox.Send(ferry.TagExit-1, mailbox.Message{
			Tag:         ferry.TagExit,
			RequesterID: p.requesterID,
			PassengerID: p.id,
			Payload:     ferry.RampPayload{Weight: p.bagWeight, IsVIP: p.vip},
		})
		return true
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
