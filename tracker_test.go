package airouter_test

import (
	"sync"
	"testing"
	"time"

	ar "github.com/notevault/airouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_ColdStartFallsBackToDeclared(t *testing.T) {
	tr := ar.NewTracker(0)

	declared := 120 * time.Millisecond
	assert.Equal(t, declared, tr.AverageLatency("p", declared))

	stats := tr.Stats("p", declared)
	assert.Equal(t, declared, stats.AverageLatency)
	assert.Equal(t, 0, stats.SampleCount)
}

func TestTracker_MeanReplacesDeclared(t *testing.T) {
	tr := ar.NewTracker(0)

	tr.Record("p", 100*time.Millisecond)
	tr.Record("p", 300*time.Millisecond)

	assert.Equal(t, 200*time.Millisecond, tr.AverageLatency("p", time.Second))
	assert.Equal(t, 2, tr.Stats("p", time.Second).SampleCount)
}

func TestTracker_EvictsOldestBeyondCapacity(t *testing.T) {
	tr := ar.NewTracker(3)

	tr.Record("p", 10*time.Millisecond)
	tr.Record("p", 20*time.Millisecond)
	tr.Record("p", 30*time.Millisecond)
	// Evicts the 10ms sample.
	tr.Record("p", 40*time.Millisecond)

	assert.Equal(t, 3, tr.Stats("p", 0).SampleCount)
	assert.Equal(t, 30*time.Millisecond, tr.AverageLatency("p", 0))
}

func TestTracker_TimeoutSamplesIncreaseAverage(t *testing.T) {
	tr := ar.NewTracker(0)

	// A healthy history, then a run of timeouts recorded at the full
	// timeout value. Each one must strictly raise the average so the
	// provider ranks worse next time.
	tr.Record("p", 50*time.Millisecond)

	timeout := 500 * time.Millisecond
	prev := tr.AverageLatency("p", 0)
	for i := 0; i < 5; i++ {
		tr.Record("p", timeout)
		avg := tr.AverageLatency("p", 0)
		assert.Greater(t, avg, prev)
		prev = avg
	}
}

func TestTracker_ProvidersAreIndependent(t *testing.T) {
	tr := ar.NewTracker(0)

	tr.Record("a", 10*time.Millisecond)
	tr.Record("b", 900*time.Millisecond)

	assert.Equal(t, 10*time.Millisecond, tr.AverageLatency("a", 0))
	assert.Equal(t, 900*time.Millisecond, tr.AverageLatency("b", 0))
}

func TestTracker_ConcurrentAppends(t *testing.T) {
	tr := ar.NewTracker(50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Record("p", 10*time.Millisecond)
				tr.AverageLatency("p", 0)
			}
		}()
	}
	wg.Wait()

	stats := tr.Stats("p", 0)
	require.Equal(t, 50, stats.SampleCount)
	assert.Equal(t, 10*time.Millisecond, stats.AverageLatency)
}

func TestHealthTracker_OpensAfterFailures(t *testing.T) {
	ht := ar.NewHealthTracker()

	assert.Equal(t, ar.HealthHealthy, ht.State("p"))

	ht.RecordFailure("p")
	ht.RecordFailure("p")
	ht.RecordFailure("p")
	assert.Equal(t, ar.HealthUnhealthy, ht.State("p"))

	ht.RecordSuccess("p")
	assert.Equal(t, ar.HealthHealthy, ht.State("p"))
}

func TestHealthState_String(t *testing.T) {
	assert.Equal(t, "healthy", ar.HealthHealthy.String())
	assert.Equal(t, "unhealthy", ar.HealthUnhealthy.String())
	assert.Equal(t, "half-open", ar.HealthHalfOpen.String())
}

func TestSpendTracker_Accumulates(t *testing.T) {
	st := ar.NewSpendTracker()

	assert.Zero(t, st.Spend("p"))
	st.RecordSpend("p", 0.03)
	st.RecordSpend("p", 0.01)
	assert.InDelta(t, 0.04, st.Spend("p"), 1e-9)
	assert.Zero(t, st.Spend("other"))
}
