package limiter

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsEmptyConstraint(t *testing.T) {
	assert.NoError(t, Constraint{}.Validate())
	assert.True(t, Constraint{}.Empty())
}

func TestValidateRejectsOutOfRangeCore(t *testing.T) {
	c := Constraint{CPUAffinity: []int{runtime.NumCPU()}}

	err := c.Validate()
	require.Error(t, err)

	var affErr *InvalidAffinityError
	require.ErrorAs(t, err, &affErr)
	assert.Equal(t, runtime.NumCPU(), affErr.Core)
}

func TestValidateRejectsNegativeCore(t *testing.T) {
	err := Constraint{CPUAffinity: []int{-1}}.Validate()

	var affErr *InvalidAffinityError
	require.ErrorAs(t, err, &affErr)
}

func TestValidateRejectsFailureRateOutsideUnitInterval(t *testing.T) {
	assert.Error(t, Constraint{FailureRate: -0.1}.Validate())
	assert.Error(t, Constraint{FailureRate: 1.1}.Validate())
	assert.NoError(t, Constraint{FailureRate: 1.0}.Validate())
}

func TestValidateRejectsNegativeDelay(t *testing.T) {
	assert.Error(t, Constraint{InjectedDelay: -time.Millisecond}.Validate())
}

func TestApplyAlwaysFailsAtFullRate(t *testing.T) {
	l := New(Constraint{FailureRate: 1.0})

	for i := 0; i < 20; i++ {
		err := l.Apply(context.Background())
		assert.ErrorIs(t, err, ErrSimulatedFailure)
	}
}

func TestApplyNeverFailsAtZeroRate(t *testing.T) {
	l := New(Constraint{FailureRate: 0.0})

	for i := 0; i < 20; i++ {
		assert.NoError(t, l.Apply(context.Background()))
	}
}

func TestApplySleepsInjectedDelay(t *testing.T) {
	l := New(Constraint{InjectedDelay: 30 * time.Millisecond})

	start := time.Now()
	require.NoError(t, l.Apply(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestApplyHonorsCancellationDuringDelay(t *testing.T) {
	l := New(Constraint{InjectedDelay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Apply(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestApplyPinsAffinityOnLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("CPU affinity requires Linux")
	}

	c := Constraint{CPUAffinity: []int{0}}
	require.NoError(t, c.Validate())

	l := New(c)
	require.NoError(t, l.Apply(context.Background()))

	// Restore the full mask so the test process is not left pinned.
	all := make([]int, runtime.NumCPU())
	for i := range all {
		all[i] = i
	}
	require.NoError(t, setAffinity(all))
}

func TestSimulatedFailureIsDistinguishable(t *testing.T) {
	err := New(Constraint{FailureRate: 1.0}).Apply(context.Background())

	assert.True(t, errors.Is(err, ErrSimulatedFailure))
}
