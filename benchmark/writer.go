package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/prachetas2003/AiModelPerformanceTester/models"
)

// logTimeFormat matches the filenames the dashboard and notebook glob for.
const logTimeFormat = "20060102_150405"

// LogFileName returns the metrics log filename for one run:
// metrics_log_<model>_<YYYYMMDD_HHMMSS>.json.
func LogFileName(model models.ID, start time.Time) string {
	return fmt.Sprintf("metrics_log_%s_%s.json", model, start.Format(logTimeFormat))
}

// writeLog serializes the full ordered record list to a timestamped file in
// dir. The file is written atomically: consumers never observe a partial
// log. Same-second collisions with a sibling run are disambiguated by a
// short UUID suffix.
func writeLog(dir string, model models.ID, start time.Time, records []IterationRecord) (string, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling records: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".metrics_log_*")
	if err != nil {
		return "", fmt.Errorf("creating temp log file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing temp log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing temp log file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("setting log file mode: %w", err)
	}

	// Publish the finished temp file by hard-linking it into place. Unlike
	// rename, link refuses an existing target, so concurrent writers that
	// share a start second each fall through to their own suffixed name
	// instead of overwriting a sibling's log.
	path := filepath.Join(dir, LogFileName(model, start))
	for {
		err := os.Link(tmp.Name(), path)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("publishing log file: %w", err)
		}
		suffix := uuid.NewString()[:8]
		path = filepath.Join(dir, fmt.Sprintf("metrics_log_%s_%s_%s.json",
			model, start.Format(logTimeFormat), suffix))
	}
	os.Remove(tmp.Name())

	return path, nil
}
