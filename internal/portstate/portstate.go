/*

	Mnemonic:	portstate
	Abstract:	The four mutex-guarded shared-state partitions from spec
				section 5: PORT_MUTEX, CURRENT_FERRY_MUTEX, FERRIES_MUTEX,
				STATS_MUTEX. Each partition is its own struct with its own
				mutex (a sync.RWMutex, or a sync.Mutex for Stats), the way osif_proj.go in the teacher repo
				guards its projection table with a dedicated rwlock rather
				than one global lock. Lock order PORT -> CURRENT_FERRY ->
				FERRIES -> STATS is documented per spec section 5; no
				method here ever acquires more than one partition's lock at
				a time, so the order is advisory rather than enforced, but
				callers that must straddle two partitions must acquire them
				in this order.

	Date:		29 July 2026
*/

package portstate

import "sync"

// FerryStatus is one of the four lifecycle states from spec section 3.
type FerryStatus int

const (
	Waiting FerryStatus = iota
	Boarding
	Departed
	Traveling
)

func (s FerryStatus) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case Boarding:
		return "BOARDING"
	case Departed:
		return "DEPARTED"
	case Traveling:
		return "TRAVELING"
	default:
		return "UNKNOWN"
	}
}

// Port is the PORT_MUTEX partition: just the open flag.
type Port struct {
	mu   sync.RWMutex
	open bool
}

func NewPort() *Port { return &Port{open: true} }

func (p *Port) IsOpen() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.open
}

func (p *Port) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// CurrentFerry is the CURRENT_FERRY_MUTEX partition: which ferry (if any,
// -1 meaning none) is at the dock.
type CurrentFerry struct {
	mu sync.RWMutex
	id int
}

func NewCurrentFerry() *CurrentFerry { return &CurrentFerry{id: -1} }

func (c *CurrentFerry) Get() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *CurrentFerry) Set(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
}

// Clear resets to the "-1 = none" sentinel.
func (c *CurrentFerry) Clear() { c.Set(-1) }

// Ferry is one FerryState record (spec section 3). BaggageLimit is fixed
// at init; the rest mutate across the ferry's lifecycle.
type Ferry struct {
	ID             int
	BaggageLimit   int
	PassengerCount int
	BaggageWeight  int
	Status         FerryStatus
}

// Ferries is the FERRIES_MUTEX partition: the per-ferry state table,
// indexed 0..F-1.
type Ferries struct {
	mu    sync.RWMutex
	table []*Ferry
}

func NewFerries(count int, baggageLimit func(i int) int) *Ferries {
	table := make([]*Ferry, count)
	for i := range table {
		table[i] = &Ferry{ID: i, BaggageLimit: baggageLimit(i), Status: Waiting}
	}
	return &Ferries{table: table}
}

// Snapshot returns a copy of ferry i's state for read-only inspection
// (e.g. a passenger checking the current ferry's baggage limit).
func (f *Ferries) Snapshot(i int) Ferry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return *f.table[i]
}

// BeginBoarding resets a ferry's counters and marks it BOARDING, per the
// dock-turn coordinator's step (c) in spec section 4.1.
func (f *Ferries) BeginBoarding(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fe := f.table[i]
	fe.Status = Boarding
	fe.PassengerCount = 0
	fe.BaggageWeight = 0
}

// AdmitPassenger records a boarded passenger's weight against ferry i
// (called on EXIT receipt, spec section 4.1 step 2).
func (f *Ferries) AdmitPassenger(i int, weight int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fe := f.table[i]
	fe.PassengerCount++
	fe.BaggageWeight += weight
}

func (f *Ferries) SetStatus(i int, s FerryStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table[i].Status = s
}

// ResetForReturn zeroes counters and marks a ferry WAITING again after a
// round trip, returning whether it carried any passengers (for the
// total_ferry_trips stat).
func (f *Ferries) ResetForReturn(i int) (hadPassengers bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fe := f.table[i]
	hadPassengers = fe.PassengerCount > 0
	fe.Status = Waiting
	fe.PassengerCount = 0
	fe.BaggageWeight = 0
	return
}

// Stats is the STATS_MUTEX partition: the externally observable counters
// from spec section 3 and 6.
type Stats struct {
	mu                        sync.Mutex
	passengersBoarded         int
	passengersRejectedBaggage int
	totalFerryTrips           int
}

func (s *Stats) IncBoarded() {
	s.mu.Lock()
	s.passengersBoarded++
	s.mu.Unlock()
}

func (s *Stats) IncRejectedBaggage() {
	s.mu.Lock()
	s.passengersRejectedBaggage++
	s.mu.Unlock()
}

func (s *Stats) IncFerryTrips() {
	s.mu.Lock()
	s.totalFerryTrips++
	s.mu.Unlock()
}

// Snapshot is a copyable, lock-free view for the supervisor's final
// summary and for tests asserting P5/P6.
type Snapshot struct {
	PassengersBoarded         int
	PassengersRejectedBaggage int
	TotalFerryTrips           int
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		PassengersBoarded:         s.passengersBoarded,
		PassengersRejectedBaggage: s.passengersRejectedBaggage,
		TotalFerryTrips:           s.totalFerryTrips,
	}
}
