package entities

import (
	"time"
)

// OperationType identifies which remote mutation a queued operation replays.
// The set is closed; the executor dispatches on it.
type OperationType string

const (
	OpAddFavoriteChapter    OperationType = "add_favorite_chapter"
	OpRemoveFavoriteChapter OperationType = "remove_favorite_chapter"
	OpAddFavoriteReciter    OperationType = "add_favorite_reciter"
	OpRemoveFavoriteReciter OperationType = "remove_favorite_reciter"
	OpUpdateReadingProgress OperationType = "update_reading_progress"
	OpTrackActivity         OperationType = "track_activity"
)

// KnownOperationTypes lists every operation type the executor understands.
var KnownOperationTypes = []OperationType{
	OpAddFavoriteChapter,
	OpRemoveFavoriteChapter,
	OpAddFavoriteReciter,
	OpRemoveFavoriteReciter,
	OpUpdateReadingProgress,
	OpTrackActivity,
}

// IsKnown reports whether t is part of the closed operation enumeration.
func (t OperationType) IsKnown() bool {
	for _, known := range KnownOperationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// QueuedOperation is a durable record of a user mutation pending remote
// confirmation. It is created synchronously with the failed/offline user
// action and removed exactly once: either on successful replay or after
// the retry ceiling is reached.
type QueuedOperation struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	UserID            string        `gorm:"index;size:64" json:"user_id"`
	OperationType     OperationType `gorm:"size:50" json:"operation_type"`
	Payload           string        `gorm:"type:text" json:"payload"` // opaque JSON, interpreted only by the executor
	ActivityTimestamp time.Time     `json:"activity_timestamp"`       // when the real-world event happened, may predate enqueue
	CreatedAt         time.Time     `gorm:"index" json:"created_at"`  // replay ordering key
	Retries           int           `gorm:"default:0" json:"retries"`
}

func (QueuedOperation) TableName() string {
	return "sync_queue"
}
