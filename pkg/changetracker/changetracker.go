// Package changetracker renders diffs for user review and records every file
// change under .teddy so a run leaves an auditable trail.
package changetracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ChangeRecord is one recorded file change.
type ChangeRecord struct {
	RequestHash string    `json:"request_hash"`
	Filename    string    `json:"filename"`
	Before      string    `json:"before"`
	After       string    `json:"after"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

const changesFile = ".teddy/changes.json"

// RecordChange appends a change record to the workspace change log.
func RecordChange(workspaceRoot string, rec ChangeRecord) error {
	rec.Timestamp = time.Now()
	path := filepath.Join(workspaceRoot, changesFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create change log directory: %w", err)
	}

	var records []ChangeRecord
	if data, err := os.ReadFile(path); err == nil {
		// A corrupt log should not block recording; start fresh.
		_ = json.Unmarshal(data, &records)
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal change log: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write change log: %w", err)
	}
	return nil
}

// LoadChanges reads the workspace change log.
func LoadChanges(workspaceRoot string) ([]ChangeRecord, error) {
	data, err := os.ReadFile(filepath.Join(workspaceRoot, changesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read change log: %w", err)
	}
	var records []ChangeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse change log: %w", err)
	}
	return records, nil
}
