package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// Each operation kind carries a typed payload. The queue stores payloads as
// opaque JSON; only this package interprets them. The constructors below are
// the one place where payloads are built, replacing open string-keyed
// dispatch with a closed set of variants.

// FavoritePayload identifies the entity being favorited or unfavorited.
type FavoritePayload struct {
	ChapterNumber int    `json:"chapter_number,omitempty"`
	ReciterID     string `json:"reciter_id,omitempty"`
}

// ProgressPayload records where the user stopped reading.
type ProgressPayload struct {
	ChapterNumber int `json:"chapter_number"`
	VerseNumber   int `json:"verse_number"`
}

// ActivityPayload records a completed reading/listening session.
type ActivityPayload struct {
	Kind            string `json:"kind"` // "reading" or "listening"
	ChapterNumber   int    `json:"chapter_number"`
	DurationSeconds int    `json:"duration_seconds"`
}

// NewFavoriteChapterOp builds an add/remove favorite chapter operation.
func NewFavoriteChapterOp(userID string, chapterNumber int, add bool, at time.Time) (*entities.QueuedOperation, error) {
	opType := entities.OpAddFavoriteChapter
	if !add {
		opType = entities.OpRemoveFavoriteChapter
	}
	return buildOp(userID, opType, FavoritePayload{ChapterNumber: chapterNumber}, at)
}

// NewFavoriteReciterOp builds an add/remove favorite reciter operation.
func NewFavoriteReciterOp(userID, reciterID string, add bool, at time.Time) (*entities.QueuedOperation, error) {
	opType := entities.OpAddFavoriteReciter
	if !add {
		opType = entities.OpRemoveFavoriteReciter
	}
	return buildOp(userID, opType, FavoritePayload{ReciterID: reciterID}, at)
}

// NewReadingProgressOp builds a reading progress update operation.
func NewReadingProgressOp(userID string, chapterNumber, verseNumber int, at time.Time) (*entities.QueuedOperation, error) {
	return buildOp(userID, entities.OpUpdateReadingProgress,
		ProgressPayload{ChapterNumber: chapterNumber, VerseNumber: verseNumber}, at)
}

// NewActivityOp builds an activity tracking operation.
func NewActivityOp(userID, kind string, chapterNumber, durationSeconds int, at time.Time) (*entities.QueuedOperation, error) {
	return buildOp(userID, entities.OpTrackActivity,
		ActivityPayload{Kind: kind, ChapterNumber: chapterNumber, DurationSeconds: durationSeconds}, at)
}

func buildOp(userID string, opType entities.OperationType, payload any, at time.Time) (*entities.QueuedOperation, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", opType, err)
	}
	return &entities.QueuedOperation{
		UserID:            userID,
		OperationType:     opType,
		Payload:           string(raw),
		ActivityTimestamp: at,
	}, nil
}
