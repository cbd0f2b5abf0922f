// Package limiter - Artificial resource constraints for benchmark runs:
// CPU affinity pinning, injected delays, and probabilistic fault injection.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"
)

// ErrSimulatedFailure is returned in place of proceeding when the fault
// injection branch fires. Each roll is independent; there is no memory of
// prior failures.
var ErrSimulatedFailure = errors.New("simulated failure injected")

// InvalidAffinityError reports a requested core index outside the range of
// cores on this machine.
type InvalidAffinityError struct {
	Core     int
	NumCores int
}

func (e *InvalidAffinityError) Error() string {
	return fmt.Sprintf("invalid CPU core %d: machine has cores 0..%d", e.Core, e.NumCores-1)
}

// Constraint configures the artificial limitations applied to a run.
type Constraint struct {
	// CPUAffinity restricts scheduling of the process to these core
	// indices. Empty means unrestricted.
	CPUAffinity []int `json:"cpu_affinity,omitempty" yaml:"cpu_affinity"`
	// InjectedDelay is slept before each iteration proceeds, simulating
	// slower hardware.
	InjectedDelay time.Duration `json:"injected_delay,omitempty" yaml:"injected_delay"`
	// FailureRate is the probability in [0,1] that an iteration fails with
	// ErrSimulatedFailure instead of proceeding.
	FailureRate float64 `json:"failure_rate,omitempty" yaml:"failure_rate"`
}

// Empty reports whether the constraint imposes no limitation at all.
func (c Constraint) Empty() bool {
	return len(c.CPUAffinity) == 0 && c.InjectedDelay == 0 && c.FailureRate == 0
}

// Validate rejects misconfigured constraints before any iteration runs.
//
// Returns:
//   - error: An *InvalidAffinityError for out-of-range core indices, or a
//     plain error for unsupported platforms and out-of-range rates.
func (c Constraint) Validate() error {
	numCores := runtime.NumCPU()
	for _, core := range c.CPUAffinity {
		if core < 0 || core >= numCores {
			return &InvalidAffinityError{Core: core, NumCores: numCores}
		}
	}
	if len(c.CPUAffinity) > 0 && !affinitySupported {
		return errors.New("setting CPU affinity is not supported on this platform")
	}
	if c.InjectedDelay < 0 {
		return fmt.Errorf("injected delay %v is negative", c.InjectedDelay)
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return fmt.Errorf("failure rate %v outside [0,1]", c.FailureRate)
	}
	return nil
}

// Limiter applies a Constraint to the current process, once per iteration.
type Limiter struct {
	constraint Constraint
	rng        *rand.Rand
	pinned     bool
}

// New creates a Limiter for the given constraint. The constraint should be
// validated first; Apply assumes it is well formed.
func New(constraint Constraint) *Limiter {
	return &Limiter{
		constraint: constraint,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Apply enforces the constraint for one iteration: pins the process to the
// configured cores on first use, sleeps the injected delay, then rolls the
// fault injection branch.
//
// Returns:
//   - error: ErrSimulatedFailure when the injection branch fires (expected,
//     recoverable), the context error on cancellation, or a wrapped OS error
//     if the affinity call fails.
func (l *Limiter) Apply(ctx context.Context) error {
	if len(l.constraint.CPUAffinity) > 0 && !l.pinned {
		if err := setAffinity(l.constraint.CPUAffinity); err != nil {
			return fmt.Errorf("pinning CPU affinity to %v: %w", l.constraint.CPUAffinity, err)
		}
		l.pinned = true
	}

	if delay := l.constraint.InjectedDelay; delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if rate := l.constraint.FailureRate; rate > 0 && l.rng.Float64() < rate {
		return ErrSimulatedFailure
	}

	return nil
}
