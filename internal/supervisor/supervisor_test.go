package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imLinguin/ferry-simulation/internal/config"
)

// baseConfig returns a small, fast configuration so end-to-end scenarios
// run in well under a second, per spec section 8's testable properties.
func baseConfig() *config.Config {
	return &config.Config{
		Ferries:         1,
		Passengers:      1,
		FerryCap:        4,
		BagWeightMin:    10,
		BagWeightMax:    10,
		BagLimitMin:     20,
		BagLimitMax:     20,
		Stations:        2,
		StationCapacity: 2,
		MaxFrustration:  3,
		RampRegular:     2,
		RampVIP:         2,
		BoardTime:       time.Millisecond,
		SecurityMin:     time.Millisecond,
		SecurityMax:     2 * time.Millisecond,
		DepartInterval:  150 * time.Millisecond,
		TravelTime:      10 * time.Millisecond,
		GateDelayMax:    5 * time.Millisecond,
		VIPProbability:  0,
		LogLevel:        0,
	}
}

// TestScenario1SinglePassengerBoards is spec section 8 scenario 1: F=1,
// P=1, vip=0, a bag well under the ferry's limit; the passenger must
// board and the ferry must complete exactly one trip.
func TestScenario1SinglePassengerBoards(t *testing.T) {
	cfg := baseConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshot, err := Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.PassengersBoarded)
	assert.Equal(t, 1, snapshot.TotalFerryTrips)
	assert.Equal(t, 0, snapshot.PassengersRejectedBaggage)
}

// TestScenario2BaggageRejection is spec section 8 scenario 2: a bag over
// the (fixed) ferry limit is rejected at least once and the passenger is
// drained on shutdown rather than boarding.
func TestScenario2BaggageRejection(t *testing.T) {
	cfg := baseConfig()
	cfg.Passengers = 1
	cfg.BagWeightMin = 25
	cfg.BagWeightMax = 25
	cfg.BagLimitMin = 20
	cfg.BagLimitMax = 20
	cfg.DepartInterval = 60 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	snapshot, err := Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.PassengersBoarded)
	assert.GreaterOrEqual(t, snapshot.PassengersRejectedBaggage, 1)
}

// TestNormalDrainMultiplePassengers exercises a slightly larger mix to
// sanity-check P5 (boarding accounting): boarded count must never exceed
// the passenger count, and every passenger must eventually exit (Run
// returns) rather than hang.
func TestNormalDrainMultiplePassengers(t *testing.T) {
	cfg := baseConfig()
	cfg.Passengers = 8
	cfg.Ferries = 2
	cfg.FerryCap = 3
	cfg.RampRegular = 2
	cfg.RampVIP = 1
	cfg.VIPProbability = 0.25
	cfg.DepartInterval = 80 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	snapshot, err := Run(ctx, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, snapshot.PassengersBoarded, cfg.Passengers)
	assert.GreaterOrEqual(t, snapshot.PassengersBoarded, 0)
}

// TestExternalInterruptDrainsCleanly is property P7: once the supervisor
// observes cancellation, every at-dock ferry must still depart with its
// on-ramp passengers drained, and Run must return promptly rather than
// hang forever.
func TestExternalInterruptDrainsCleanly(t *testing.T) {
	cfg := baseConfig()
	cfg.Passengers = 6
	cfg.DepartInterval = 5 * time.Second // would never naturally close without the interrupt

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(40 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	var err error
	go func() {
		_, err = Run(ctx, cfg)
		close(done)
	}()

	select {
	case <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not drain within 5s of external interrupt")
	}
}
