package orchestration

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_AccumulatesOutcomes(t *testing.T) {
	t.Parallel()
	agg := NewAggregator()

	agg.Success(DeviceResult{Name: "dev-a", SlotID: 1})
	agg.Failure(FailureRecord{Name: "dev-b", Stage: StageLaunch, Err: errors.New("boom")})
	agg.Success(DeviceResult{Name: "dev-c", SlotID: 2})

	report := agg.Finalize()
	assert.Equal(t, 3, report.Total())
	require.Len(t, report.Succeeded, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "dev-b", report.Failed[0].Name)
	assert.Equal(t, StageLaunch, report.Failed[0].Stage)
}

func TestAggregator_SafeUnderConcurrentWriters(t *testing.T) {
	t.Parallel()
	agg := NewAggregator()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				agg.Success(DeviceResult{SlotID: i})
			} else {
				agg.Failure(FailureRecord{Stage: StageInit, Err: errors.New("x")})
			}
		}(i)
	}
	wg.Wait()

	report := agg.Finalize()
	assert.Equal(t, writers, report.Total())
}

func TestAggregator_WriteAfterFinalizePanics(t *testing.T) {
	t.Parallel()
	agg := NewAggregator()
	agg.Finalize()

	assert.Panics(t, func() { agg.Success(DeviceResult{Name: "late"}) })
	assert.Panics(t, func() { agg.Failure(FailureRecord{Name: "late"}) })
}

func TestAggregator_FinalizeReturnsACopy(t *testing.T) {
	t.Parallel()
	agg := NewAggregator()
	agg.Success(DeviceResult{Name: "dev-a"})

	report := agg.Finalize()
	report.Succeeded[0].Name = "mutated"

	// A second Finalize reflects the sealed state, not the mutation.
	again := agg.Finalize()
	assert.Equal(t, "dev-a", again.Succeeded[0].Name)
}
