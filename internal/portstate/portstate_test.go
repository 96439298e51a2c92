package portstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentFerrySentinel(t *testing.T) {
	cf := NewCurrentFerry()
	assert.Equal(t, -1, cf.Get())
	cf.Set(2)
	assert.Equal(t, 2, cf.Get())
	cf.Clear()
	assert.Equal(t, -1, cf.Get())
}

func TestFerriesBeginBoardingResetsCounters(t *testing.T) {
	f := NewFerries(2, func(i int) int { return 20 + i })
	f.AdmitPassenger(0, 15)
	f.AdmitPassenger(0, 10)
	snap := f.Snapshot(0)
	assert.Equal(t, 2, snap.PassengerCount)
	assert.Equal(t, 25, snap.BaggageWeight)

	f.BeginBoarding(0)
	snap = f.Snapshot(0)
	assert.Equal(t, Boarding, snap.Status)
	assert.Equal(t, 0, snap.PassengerCount)
	assert.Equal(t, 0, snap.BaggageWeight)
	assert.Equal(t, 20, snap.BaggageLimit, "baggage limit is fixed at init")
}

func TestResetForReturnReportsHadPassengers(t *testing.T) {
	f := NewFerries(1, func(int) int { return 30 })
	f.AdmitPassenger(0, 5)
	had := f.ResetForReturn(0)
	assert.True(t, had)
	assert.Equal(t, Waiting, f.Snapshot(0).Status)

	had = f.ResetForReturn(0)
	assert.False(t, had)
}

func TestStatsCounters(t *testing.T) {
	s := &Stats{}
	s.IncBoarded()
	s.IncBoarded()
	s.IncRejectedBaggage()
	s.IncFerryTrips()

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.PassengersBoarded)
	assert.Equal(t, 1, snap.PassengersRejectedBaggage)
	assert.Equal(t, 1, snap.TotalFerryTrips)
}

func TestPortOpenClose(t *testing.T) {
	p := NewPort()
	assert.True(t, p.IsOpen())
	p.Close()
	assert.False(t, p.IsOpen())
}
