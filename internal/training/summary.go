package training

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSummary overwrites the training summary with one entry per trained
// spec. The file lands via temp-and-rename so readers never see a partial
// array.
func WriteSummary(path string, results []SpecResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	blob, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".summary-*.json")
	if err != nil {
		return fmt.Errorf("creating temp summary: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ReadSummary loads a previously written summary.
func ReadSummary(path string) ([]SpecResult, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var results []SpecResult
	if err := json.Unmarshal(blob, &results); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return results, nil
}
