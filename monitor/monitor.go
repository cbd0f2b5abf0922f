// Package monitor - On-demand CPU and memory utilization sampling.
package monitor

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Sample is a point-in-time snapshot of CPU and memory utilization. The
// timestamp is wall-clock epoch seconds, matching the schema of the metrics
// log files.
type Sample struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Timestamp     float64 `json:"timestamp"`
}

// QueryError reports a failed OS utilization query. The caller decides
// whether to substitute a placeholder sample or abort.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("resource query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Monitor takes utilization samples on demand. It holds no state across
// calls; the zero value takes instantaneous system-wide samples.
type Monitor struct {
	// Window, when non-zero, makes the CPU query block over this interval
	// instead of reporting utilization since the previous query.
	Window time.Duration
	// ProcessScoped restricts the sample to the current process rather
	// than the whole system.
	ProcessScoped bool
}

// Sample returns the current CPU percentage, memory percentage, and
// wall-clock timestamp.
//
// Returns:
//   - Sample: The utilization snapshot.
//   - error: A *QueryError if the underlying OS query fails.
func (m *Monitor) Sample() (Sample, error) {
	if m.ProcessScoped {
		return m.sampleProcess()
	}
	return m.sampleSystem()
}

func (m *Monitor) sampleSystem() (Sample, error) {
	percents, err := cpu.Percent(m.Window, false)
	if err != nil {
		return Sample{}, &QueryError{Err: err}
	}
	if len(percents) == 0 {
		return Sample{}, &QueryError{Err: fmt.Errorf("no CPU utilization reported")}
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return Sample{}, &QueryError{Err: err}
	}

	return Sample{
		CPUPercent:    percents[0],
		MemoryPercent: vm.UsedPercent,
		Timestamp:     now(),
	}, nil
}

func (m *Monitor) sampleProcess() (Sample, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Sample{}, &QueryError{Err: err}
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return Sample{}, &QueryError{Err: err}
	}

	memPercent, err := proc.MemoryPercent()
	if err != nil {
		return Sample{}, &QueryError{Err: err}
	}

	return Sample{
		CPUPercent:    cpuPercent,
		MemoryPercent: float64(memPercent),
		Timestamp:     now(),
	}, nil
}

// Placeholder returns a zero-utilization sample stamped with the current
// time. It stands in for a sample when the OS query fails, keeping the
// record schema intact for downstream consumers.
func Placeholder() Sample {
	return Sample{Timestamp: now()}
}

func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
