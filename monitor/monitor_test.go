package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSystemWide(t *testing.T) {
	m := &Monitor{}

	sample, err := m.Sample()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, sample.CPUPercent, 0.0)
	assert.GreaterOrEqual(t, sample.MemoryPercent, 0.0)
	assert.LessOrEqual(t, sample.MemoryPercent, 100.0)
	assert.Greater(t, sample.Timestamp, 0.0)
}

func TestSampleTimestampsMonotonic(t *testing.T) {
	m := &Monitor{}

	first, err := m.Sample()
	require.NoError(t, err)

	second, err := m.Sample()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, second.Timestamp, first.Timestamp)
}

func TestSampleWithWindowBlocks(t *testing.T) {
	m := &Monitor{Window: 50 * time.Millisecond}

	start := time.Now()
	_, err := m.Sample()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSampleProcessScoped(t *testing.T) {
	m := &Monitor{ProcessScoped: true}

	sample, err := m.Sample()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, sample.CPUPercent, 0.0)
	assert.GreaterOrEqual(t, sample.MemoryPercent, 0.0)
	assert.Greater(t, sample.Timestamp, 0.0)
}

func TestPlaceholderCarriesTimestamp(t *testing.T) {
	sample := Placeholder()

	assert.Zero(t, sample.CPUPercent)
	assert.Zero(t, sample.MemoryPercent)
	assert.Greater(t, sample.Timestamp, 0.0)
}
