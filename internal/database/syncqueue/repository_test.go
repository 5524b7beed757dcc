package syncqueue

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_syncqueue_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.QueuedOperation{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func insertOp(t *testing.T, repo *Repository, userID string, opType entities.OperationType, createdAt time.Time) *entities.QueuedOperation {
	op := &entities.QueuedOperation{
		UserID:        userID,
		OperationType: opType,
		Payload:       `{"chapter_number":1}`,
		CreatedAt:     createdAt,
	}
	require.NoError(t, repo.Insert(op))
	return op
}

func TestRepository_Insert_ResetsRetries(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	op := &entities.QueuedOperation{
		UserID:        "user-1",
		OperationType: entities.OpAddFavoriteChapter,
		Payload:       `{"chapter_number":2}`,
		Retries:       3,
	}
	require.NoError(t, repo.Insert(op))

	ops, err := repo.ListPending("user-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 0, ops[0].Retries)
	assert.False(t, ops[0].CreatedAt.IsZero())
}

func TestRepository_ListPending_OrdersByCreatedAt(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Now()
	insertOp(t, repo, "user-1", entities.OpRemoveFavoriteChapter, base.Add(2*time.Second))
	insertOp(t, repo, "user-1", entities.OpAddFavoriteChapter, base)
	insertOp(t, repo, "user-1", entities.OpUpdateReadingProgress, base.Add(time.Second))
	insertOp(t, repo, "user-2", entities.OpTrackActivity, base)

	ops, err := repo.ListPending("user-1")
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, entities.OpAddFavoriteChapter, ops[0].OperationType)
	assert.Equal(t, entities.OpUpdateReadingProgress, ops[1].OperationType)
	assert.Equal(t, entities.OpRemoveFavoriteChapter, ops[2].OperationType)
}

func TestRepository_PendingCount(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	insertOp(t, repo, "user-1", entities.OpAddFavoriteChapter, time.Now())
	insertOp(t, repo, "user-1", entities.OpTrackActivity, time.Now())
	insertOp(t, repo, "user-2", entities.OpTrackActivity, time.Now())

	count, err := repo.PendingCount("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.PendingCount("user-3")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepository_PendingUsers(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	insertOp(t, repo, "user-1", entities.OpAddFavoriteChapter, time.Now())
	insertOp(t, repo, "user-1", entities.OpTrackActivity, time.Now())
	insertOp(t, repo, "user-2", entities.OpTrackActivity, time.Now())

	users, err := repo.PendingUsers()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)
}

func TestRepository_IncrementRetries(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	op := insertOp(t, repo, "user-1", entities.OpUpdateReadingProgress, time.Now())

	require.NoError(t, repo.IncrementRetries(op.ID))
	require.NoError(t, repo.IncrementRetries(op.ID))

	ops, err := repo.ListPending("user-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 2, ops[0].Retries)
}

func TestRepository_Delete_IsIdempotent(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	op := insertOp(t, repo, "user-1", entities.OpAddFavoriteReciter, time.Now())

	require.NoError(t, repo.Delete(op.ID))
	// Deleting again must not error: overlapping drain passes both issue
	// the delete for a successfully replayed operation.
	require.NoError(t, repo.Delete(op.ID))

	count, err := repo.PendingCount("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
