package recitations

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

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_recitations_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.CachedRecitation{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func testMeta(chapter int, reciterID string, size int64) *entities.CachedRecitation {
	return &entities.CachedRecitation{
		ChapterNumber: chapter,
		ReciterID:     reciterID,
		SourceURL:     "https://cdn.example.com/audio.mp3",
		CacheKey:      "abc123",
		FileSizeBytes: size,
		DownloadedAt:  time.Now(),
	}
}

func TestRepository_GetMissingReturnsNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get(36, "reciter-a")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_UpsertAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Upsert(testMeta(36, "reciter-a", 1024)))

	meta, err := repo.Get(36, "reciter-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), meta.FileSizeBytes)
	assert.Equal(t, "abc123", meta.CacheKey)
}

func TestRepository_UpsertReplacesWithoutDuplicates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Upsert(testMeta(36, "reciter-a", 1024)))

	replacement := testMeta(36, "reciter-a", 2048)
	replacement.CacheKey = "def456"
	require.NoError(t, repo.Upsert(replacement))

	metas, err := repo.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, int64(2048), metas[0].FileSizeBytes)
	assert.Equal(t, "def456", metas[0].CacheKey)
}

func TestRepository_SameChapterDifferentReciters(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Upsert(testMeta(36, "reciter-a", 1024)))
	require.NoError(t, repo.Upsert(testMeta(36, "reciter-b", 4096)))

	metas, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Upsert(testMeta(36, "reciter-a", 1024)))
	require.NoError(t, repo.Delete(36, "reciter-a"))

	_, err := repo.Get(36, "reciter-a")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting an absent row is a no-op
	require.NoError(t, repo.Delete(36, "reciter-a"))
}

func TestRepository_TotalSize(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	total, err := repo.TotalSize()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	require.NoError(t, repo.Upsert(testMeta(1, "reciter-a", 1000)))
	require.NoError(t, repo.Upsert(testMeta(2, "reciter-a", 2500)))

	total, err = repo.TotalSize()
	require.NoError(t, err)
	assert.Equal(t, int64(3500), total)
}
