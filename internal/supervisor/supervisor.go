/*

	Mnemonic:	supervisor
	Abstract:	The port supervisor: spec section 4.4. Spawns the security
				manager, F ferry actors and P passenger actors, drives
				normal drain and the external-interrupt shutdown path, and
				prints the final stats summary. Built the way main/tegu.go
				builds its channels and spawns its managers with `go`, but
				using golang.org/x/sync/errgroup to collect the actors
				instead of a bare sync.WaitGroup plus `os.Exit` at the end.

	Date:		29 July 2026
*/

package supervisor

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imLinguin/ferry-simulation/internal/config"
	"github.com/imLinguin/ferry-simulation/internal/ferry"
	"github.com/imLinguin/ferry-simulation/internal/logging"
	"github.com/imLinguin/ferry-simulation/internal/mailbox"
	"github.com/imLinguin/ferry-simulation/internal/passenger"
	"github.com/imLinguin/ferry-simulation/internal/permits"
	"github.com/imLinguin/ferry-simulation/internal/portstate"
	"github.com/imLinguin/ferry-simulation/internal/security"
	"github.com/imLinguin/ferry-simulation/internal/turntoken"
)

// rampMailboxClasses mirrors the three RAMP priority classes (EXIT, VIP,
// REGULAR); securityMailboxClasses is the single SECURITY class.
const (
	rampMailboxClasses     = 3
	securityMailboxClasses = 1
	mailboxBuffer          = 64
)

// watchdogInterval governs how often the interrupt path re-checks for
// newly-boarding ferries that missed the first early-depart broadcast.
const watchdogInterval = 5 * time.Millisecond

// Run builds every primitive and actor named in spec sections 3-4, drives
// the simulation to either normal drain (section 4.4 first trigger) or
// external interrupt (second trigger) via ctx cancellation, and returns
// the final stats snapshot.
func Run(ctx context.Context, cfg *config.Config) (portstate.Snapshot, error) {
	logging.Init(cfg.LogLevel)
	portLog := logging.For(logging.PortManager)
	ferryLog := logging.For(logging.FerryManager)
	passLog := logging.For(logging.Passenger)
	secLog := logging.For(logging.SecurityManager)

	port := portstate.NewPort()
	currentFerry := portstate.NewCurrentFerry()
	stats := &portstate.Stats{}
	ferries := portstate.NewFerries(cfg.Ferries, func(int) int {
		span := cfg.BagLimitMax - cfg.BagLimitMin
		if span <= 0 {
			return cfg.BagLimitMin
		}
		return cfg.BagLimitMin + rand.Intn(span+1)
	})

	token := turntoken.New()
	ramp := mailbox.New(rampMailboxClasses, mailboxBuffer)
	rampSlots := [2]*permits.Pool{
		permits.New(int64(cfg.RampRegular)),
		permits.New(int64(cfg.RampVIP)),
	}
	securityMbox := mailbox.New(securityMailboxClasses, mailboxBuffer)
	securitySlots := permits.New(int64(cfg.Stations * cfg.StationCapacity))

	ferryCfg := ferry.Config{
		Capacity:       cfg.FerryCap,
		RampRegular:    cfg.RampRegular,
		RampVIP:        cfg.RampVIP,
		DepartInterval: cfg.DepartInterval,
		GateDelayMax:   cfg.GateDelayMax,
		TravelTime:     cfg.TravelTime,
	}
	ferryActors := make([]*ferry.Ferry, cfg.Ferries)
	for i := range ferryActors {
		ferryActors[i] = ferry.New(i, ferryCfg, ferryLog, token, port, currentFerry, ferries, stats, ramp, rampSlots)
	}

	secCtx, cancelSecurity := context.WithCancel(ctx)
	defer cancelSecurity()
	secMgr := security.New(securityMbox, secLog, cfg.Stations, cfg.StationCapacity, cfg.MaxFrustration, cfg.SecurityMin, cfg.SecurityMax)

	var secGroup errgroup.Group
	secGroup.Go(func() error {
		secMgr.Run(secCtx)
		return nil
	})

	var ferryGroup errgroup.Group
	for _, f := range ferryActors {
		f := f
		ferryGroup.Go(func() error {
			f.Run(ctx)
			return nil
		})
	}

	passCfg := passenger.Config{
		BagWeightMin:   cfg.BagWeightMin,
		BagWeightMax:   cfg.BagWeightMax,
		VIPProbability: cfg.VIPProbability,
		BoardTime:      cfg.BoardTime,
	}
	var passGroup errgroup.Group
	for i := 0; i < cfg.Passengers; i++ {
		p := passenger.New(i, passCfg, passLog, currentFerry, ferries, stats, securityMbox, securitySlots, ramp, rampSlots)
		passGroup.Go(func() error {
			p.Run(ctx)
			return nil
		})
	}

	passengersDone := make(chan struct{})
	go func() {
		_ = passGroup.Wait()
		close(passengersDone)
	}()

	watchdogDone := make(chan struct{})
	go func() {
		defer close(watchdogDone)
		select {
		case <-passengersDone:
			return // normal drain: no interrupt ever arrived, nothing to broadcast
		case <-ctx.Done():
		}
		portLog.Baa(1, "external interrupt received: broadcasting port-closed and early-depart")
		for {
			select {
			case <-passengersDone:
				return
			default:
			}
			for i, f := range ferryActors {
				if ferries.Snapshot(i).Status == portstate.Boarding {
					f.SignalEarlyDepart()
				}
			}
			select {
			case <-passengersDone:
				return
			case <-time.After(watchdogInterval):
			}
		}
	}()

	<-passengersDone
	<-watchdogDone
	portLog.Baa(1, "all passengers have exited; closing port")
	port.Close()

	_ = ferryGroup.Wait()
	cancelSecurity()
	_ = secGroup.Wait()

	snapshot := stats.Snapshot()
	portLog.Baa(1, "drain complete: boarded=%d rejected_baggage=%d ferry_trips=%d",
		snapshot.PassengersBoarded, snapshot.PassengersRejectedBaggage, snapshot.TotalFerryTrips)

	return snapshot, nil
}

// Summary renders the final stats the way spec section 7 calls for
// ("a final summary of stats") on the CLI surface.
func Summary(s portstate.Snapshot) string {
	return fmt.Sprintf(
		"passengers_boarded=%d passengers_rejected_baggage=%d total_ferry_trips=%d",
		s.PassengersBoarded, s.PassengersRejectedBaggage, s.TotalFerryTrips,
	)
}
