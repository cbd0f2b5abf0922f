// Package benchmark - Timed inference loops with per-iteration resource
// sampling and JSON metrics logging.
package benchmark

import (
	"time"

	"github.com/prachetas2003/AiModelPerformanceTester/models"
	"github.com/prachetas2003/AiModelPerformanceTester/monitor"
)

// IterationRecord captures one timed inference call bracketed by resource
// samples. A non-empty Error marks the iteration failed; failed iterations
// carry no timing data. Records are immutable once appended.
type IterationRecord struct {
	Iteration     int            `json:"iteration"`
	Before        monitor.Sample `json:"before"`
	After         monitor.Sample `json:"after"`
	InferenceTime float64        `json:"inference_time"`
	Error         string         `json:"error,omitempty"`
}

// Failed reports whether this iteration carries a failure marker.
func (r IterationRecord) Failed() bool { return r.Error != "" }

// Summary aggregates latency and failure statistics for a finished run.
// Failed iterations are excluded from the latency figures.
type Summary struct {
	Iterations       int     `json:"iterations"`
	Failures         int     `json:"failures"`
	AvgInferenceTime float64 `json:"avg_inference_time"`
	MinInferenceTime float64 `json:"min_inference_time"`
	MaxInferenceTime float64 `json:"max_inference_time"`
	// Throughput is inferences per second, 1/avg at batch size 1.
	Throughput float64 `json:"throughput"`
}

// Run is the full ordered record sequence for one (model, iterations,
// constraint) tuple. Insertion order is execution order.
type Run struct {
	Model     models.ID
	StartedAt time.Time
	Records   []IterationRecord
	Summary   Summary
	// LogPath is the metrics log file written for this run, empty when
	// log saving is disabled.
	LogPath string
}

// latencyTracker accumulates successful inference durations.
type latencyTracker struct {
	total time.Duration
	min   time.Duration
	max   time.Duration
	count int
}

func (t *latencyTracker) record(d time.Duration) {
	if t.count == 0 || d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
	t.total += d
	t.count++
}

func (t *latencyTracker) summary(iterations, failures int) Summary {
	s := Summary{
		Iterations: iterations,
		Failures:   failures,
	}
	if t.count == 0 {
		return s
	}
	avg := t.total / time.Duration(t.count)
	s.AvgInferenceTime = avg.Seconds()
	s.MinInferenceTime = t.min.Seconds()
	s.MaxInferenceTime = t.max.Seconds()
	if avg > 0 {
		s.Throughput = 1.0 / avg.Seconds()
	}
	return s
}
