package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
	"github.com/Maagdy/Yaqeen-sub001/internal/remote"
)

// SyncStore defines the queue operations the sync endpoints need.
type SyncStore interface {
	PendingCount(userID string) (int64, error)
	PendingItems(userID string) ([]entities.QueuedOperation, error)
}

// MutationApplier applies a mutation remotely or queues it for replay.
type MutationApplier interface {
	Apply(ctx context.Context, op *entities.QueuedOperation) (queued bool, err error)
}

// DrainTrigger requests a drain for one user.
type DrainTrigger func(ctx context.Context, userID string)

type SyncController struct {
	store   SyncStore
	applier MutationApplier
	drain   DrainTrigger
}

func NewSyncController(store SyncStore, applier MutationApplier, drain DrainTrigger) *SyncController {
	return &SyncController{store: store, applier: applier, drain: drain}
}

// MutationRequest is the shell's request to apply one user mutation.
type MutationRequest struct {
	OperationType   string    `json:"operation_type" binding:"required"`
	ChapterNumber   int       `json:"chapter_number"`
	VerseNumber     int       `json:"verse_number"`
	ReciterID       string    `json:"reciter_id"`
	ActivityKind    string    `json:"activity_kind"`
	DurationSeconds int       `json:"duration_seconds"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Apply handles a user mutation with the optimistic call-then-queue pattern.
// POST /api/mutations
func (sc *SyncController) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid mutation request: "+err.Error())
		return
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now()
	}

	op, err := buildOperation(userID, req)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	queued, err := sc.applier.Apply(c.Request.Context(), op)
	if err != nil {
		respondInternalError(c, err, "apply mutation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"queued": queued})
}

// Pending reports the queued backlog for the pending-count indicator.
// GET /api/sync/pending
func (sc *SyncController) Pending(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := sc.store.PendingCount(userID)
	if err != nil {
		respondInternalError(c, err, "pending count")
		return
	}

	resp := gin.H{"count": count}
	if c.Query("include_items") == "true" {
		items, err := sc.store.PendingItems(userID)
		if err != nil {
			respondInternalError(c, err, "pending items")
			return
		}
		resp["items"] = items
	}

	c.JSON(http.StatusOK, resp)
}

// Drain triggers an immediate drain attempt, e.g. on app-start.
// POST /api/sync/drain
func (sc *SyncController) Drain(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	go sc.drain(context.Background(), userID)
	respondSuccess(c, "drain scheduled")
}

func buildOperation(userID string, req MutationRequest) (*entities.QueuedOperation, error) {
	switch entities.OperationType(req.OperationType) {
	case entities.OpAddFavoriteChapter:
		return remote.NewFavoriteChapterOp(userID, req.ChapterNumber, true, req.OccurredAt)
	case entities.OpRemoveFavoriteChapter:
		return remote.NewFavoriteChapterOp(userID, req.ChapterNumber, false, req.OccurredAt)
	case entities.OpAddFavoriteReciter:
		return remote.NewFavoriteReciterOp(userID, req.ReciterID, true, req.OccurredAt)
	case entities.OpRemoveFavoriteReciter:
		return remote.NewFavoriteReciterOp(userID, req.ReciterID, false, req.OccurredAt)
	case entities.OpUpdateReadingProgress:
		return remote.NewReadingProgressOp(userID, req.ChapterNumber, req.VerseNumber, req.OccurredAt)
	case entities.OpTrackActivity:
		return remote.NewActivityOp(userID, req.ActivityKind, req.ChapterNumber, req.DurationSeconds, req.OccurredAt)
	}
	return nil, &UnknownOperationError{Type: req.OperationType}
}

// UnknownOperationError reports a mutation request outside the closed
// operation enumeration.
type UnknownOperationError struct {
	Type string
}

func (e *UnknownOperationError) Error() string {
	return "unknown operation type: " + e.Type
}
