package diagnostics

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

func TestDeadLetter_SaveWritesRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deadletter")
	dl := NewDeadLetter(dir)

	op := entities.QueuedOperation{
		ID:            7,
		UserID:        "user-1",
		OperationType: entities.OpAddFavoriteChapter,
		Payload:       `{"chapter_number":36}`,
		Retries:       4,
	}

	filename, err := dl.save(op, errors.New("server error: HTTP 502"))
	require.NoError(t, err)
	assert.NotEmpty(t, filename)

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	var record discardedRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, uint(7), record.Operation.ID)
	assert.Equal(t, entities.OpAddFavoriteChapter, record.Operation.OperationType)
	assert.Equal(t, "server error: HTTP 502", record.LastError)
	assert.False(t, record.DiscardedAt.IsZero())
}

func TestDeadLetter_EachDiscardGetsItsOwnFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deadletter")
	dl := NewDeadLetter(dir)

	op := entities.QueuedOperation{ID: 1, OperationType: entities.OpTrackActivity}
	dl.RecordDiscarded(op, errors.New("first"))
	dl.RecordDiscarded(op, errors.New("second"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDeadLetter_RecordDiscardedSwallowsArchiveFailure(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	dl := NewDeadLetter(blocker)
	// Must not panic or error: the queue's removal invariant does not
	// depend on the archive.
	dl.RecordDiscarded(entities.QueuedOperation{ID: 1}, errors.New("boom"))
}
