// Package diagnostics archives operations the sync queue discarded at the
// retry ceiling. Discards are never surfaced interactively; the JSON files
// written here are the only trace a permanently failed replay leaves.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// DeadLetter writes one JSON file per discarded operation, UUID4 filenames.
type DeadLetter struct {
	Dir string
}

// NewDeadLetter creates a dead-letter archive rooted at dir.
func NewDeadLetter(dir string) *DeadLetter {
	return &DeadLetter{Dir: dir}
}

type discardedRecord struct {
	Operation   entities.QueuedOperation `json:"operation"`
	LastError   string                   `json:"last_error"`
	DiscardedAt time.Time                `json:"discarded_at"`
}

// RecordDiscarded archives op with the error from its final attempt.
// Archive failures are logged and swallowed: the queue invariant (removed
// exactly once at the ceiling) must not depend on the archive being
// writable.
func (d *DeadLetter) RecordDiscarded(op entities.QueuedOperation, lastErr error) {
	if _, err := d.save(op, lastErr); err != nil {
		log.Printf("[DIAG] failed to archive discarded operation %d: %v", op.ID, err)
	}
}

func (d *DeadLetter) save(op entities.QueuedOperation, lastErr error) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dead-letter directory: %w", err)
	}

	record := discardedRecord{
		Operation:   op,
		DiscardedAt: time.Now(),
	}
	if lastErr != nil {
		record.LastError = lastErr.Error()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal discarded operation: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write dead-letter file: %w", err)
	}

	return filename, nil
}
