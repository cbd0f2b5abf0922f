package benchmark

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prachetas2003/AiModelPerformanceTester/models"
)

func TestLogFileNameFormat(t *testing.T) {
	start := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	name := LogFileName(models.ResNet18, start)
	assert.Equal(t, "metrics_log_resnet18_20250314_150926.json", name)
}

func TestWriteLogRoundTrips(t *testing.T) {
	dir := t.TempDir()
	records := []IterationRecord{
		{Iteration: 0, InferenceTime: 0.01},
		{Iteration: 1, Error: "simulated failure injected"},
	}

	path, err := writeLog(dir, models.AlexNet, time.Now(), records)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []IterationRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, records, decoded)
}

func TestWriteLogSameSecondRunsGetDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	start := time.Now()
	records := []IterationRecord{{Iteration: 0}}

	first, err := writeLog(dir, models.MobileNetV2, start, records)
	require.NoError(t, err)

	second, err := writeLog(dir, models.MobileNetV2, start, records)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(filepath.Base(second), "metrics_log_mobilenet_v2_"))
}

func TestWriteLogConcurrentSameSecondWritersKeepAllLogs(t *testing.T) {
	dir := t.TempDir()
	start := time.Now()

	// A payload large enough that marshaling and writing yield between
	// writers, so the writers genuinely interleave.
	records := make([]IterationRecord, 2048)
	for i := range records {
		records[i] = IterationRecord{Iteration: i, InferenceTime: float64(i) / 1000}
	}

	const writers = 16
	paths := make([]string, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = writeLog(dir, models.ResNet18, start, records)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, writers)
	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		seen[paths[i]] = struct{}{}
	}
	assert.Len(t, seen, writers, "every writer must keep its own log file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, writers)

	for path := range seen {
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded []IterationRecord
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Len(t, decoded, len(records))
	}
}

func TestWriteLogLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := writeLog(dir, models.ResNet18, time.Now(), []IterationRecord{{Iteration: 0}})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasPrefix(entries[0].Name(), "."))
}
